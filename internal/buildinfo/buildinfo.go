// Package buildinfo exposes the version stamped into the binary.
package buildinfo

import (
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/csrent/csrent-cli/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type Info struct {
	Version    string `json:"version"`
	RawVersion string `json:"rawVersion"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
}

func Current() Info {
	return Info{
		Version:    DisplayVersion(),
		RawVersion: Version,
		Commit:     Commit,
		Date:       Date,
	}
}

// DisplayVersion returns Version with a "v" prefix on numeric versions.
// An unset Version falls back to the module version embedded by
// `go install ...@vX.Y.Z`.
func DisplayVersion() string {
	v := strings.TrimSpace(Version)
	if v == "" || v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			v = strings.TrimSpace(bi.Main.Version)
		}
	}
	return normalize(v)
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "" || v == "dev" || v == "(devel)":
		return "dev"
	case strings.HasPrefix(v, "v"):
		return v
	case v[0] >= '0' && v[0] <= '9':
		return "v" + v
	}
	return v
}

// Inline renders the info on one line ("v1.2.0 · abcdef1 · 2026-01-14"),
// leaving out placeholder commit and date values.
func (i Info) Inline() string {
	parts := []string{i.Version}
	if c := shortCommit(i.Commit); c != "" {
		parts = append(parts, c)
	}
	if d := shortDate(i.Date); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " · ")
}

func shortCommit(commit string) string {
	c := strings.TrimSpace(commit)
	if c == "" || c == "none" {
		return ""
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return c
}

func shortDate(date string) string {
	d := strings.TrimSpace(date)
	if d == "" || d == "unknown" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, d); err == nil {
		return t.Format(time.DateOnly)
	}
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}
