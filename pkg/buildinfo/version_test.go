package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = "dev", "none", "unknown"
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFillFrom(t *testing.T) {
	reset(t)
	fillFrom(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fillFrom() = %s/%s/%s", Version, Commit, Date)
	}
}

func TestFillFromKeepsLdflags(t *testing.T) {
	reset(t)
	Version, Commit = "v9.9.9", "deadbeef"
	fillFrom(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	if Version != "v9.9.9" || Commit != "deadbeef" {
		t.Errorf("ldflags values overwritten: %s/%s", Version, Commit)
	}
}

func TestTemplate(t *testing.T) {
	reset(t)
	if !strings.HasPrefix(Template(), "{{.Name}} version dev\n") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: none") {
		t.Errorf("String() = %q", String())
	}
}
