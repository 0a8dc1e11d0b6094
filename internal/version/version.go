// Package version holds the ops-generator build version.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the ops-generator CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the tool. Config files check their
	// `requires` constraint against it.
	Version = "0.3.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Commit returns GitCommit, falling back to the VCS revision recorded by
// the Go toolchain.
func Commit() string {
	if c := strings.TrimSpace(GitCommit); c != "" {
		return c
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}

	return ""
}

// Pretty renders Version with each component colored. A version that is not
// semantic is returned unchanged.
func Pretty(enableColor bool) string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}

	colors := []*color.Color{majorColor, minorColor, patchColor}
	for _, c := range colors {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	out := majorColor.Sprint(v.Major()) + "." + minorColor.Sprint(v.Minor()) + "." + patchColor.Sprint(v.Patch())
	if p := v.Prerelease(); p != "" {
		out += "-" + p
	}

	if m := v.Metadata(); m != "" {
		out += "+" + m
	}

	return out
}
