package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	oldRead, oldV, oldC, oldD := readBuildInfo, Version, Commit, Date
	t.Cleanup(func() { readBuildInfo, Version, Commit, Date = oldRead, oldV, oldC, oldD })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetStamped(t *testing.T) {
	stub(t, &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Version: "v0.9.0"},
		Settings:  []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
	})
	Version, Commit, Date = "v1.2.3", "deadbeef", "2026-01-02T03:04:05Z"

	got := Get()
	want := Info{Version: "v1.2.3", Commit: "deadbeef", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.25.0"}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if !strings.Contains(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestGetFallsBackToToolchain(t *testing.T) {
	stub(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-05-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	got := Get()
	if got.Version != "v0.9.0" || got.Commit != "abc123" || got.Date != "2026-05-01T00:00:00Z" || !got.Modified {
		t.Errorf("Get() = %+v", got)
	}
	if s := got.String(); !strings.Contains(s, "commit: abc123 (modified)") {
		t.Errorf("String() = %q", s)
	}
}

func TestGetDevelBuild(t *testing.T) {
	stub(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}

	stub(t, nil)
	if got := Get(); got.Commit != "none" || got.GoVersion != "" {
		t.Errorf("Get() without build info = %+v", got)
	}
}
