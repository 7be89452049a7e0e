package buildinfo

import (
	"runtime/debug"
	"testing"
)

func withInfo(t *testing.T, version, commit, date string, main string) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead })
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: main}}, true
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name                        string
		version, commit, date, main string
		want                        string
	}{
		{name: "dev build", version: "dev", main: "(devel)", want: "dev"},
		{name: "empty version", version: "", main: "", want: "dev"},
		{name: "go install", version: "dev", main: "v0.3.1", want: "v0.3.1"},
		{name: "ldflags win", version: "1.2.3", main: "v0.3.1", want: "1.2.3"},
		{name: "commit and date", version: "1.2.3", commit: "0123456789abcdef", date: "2024-05-01", want: "1.2.3 (commit=0123456, date=2024-05-01)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withInfo(t, tt.version, tt.commit, tt.date, tt.main)
			if got := Summary(); got != tt.want {
				t.Fatalf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
