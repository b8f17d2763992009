// Package settings holds build metadata and the options of a single atable
// run, and carries them through a context.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "atable"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the CLI.
type Run struct {
	MinLogLevel int8
	Debug       bool
	ConfigPath  string
	Inputs      []string
}

// NewCliParams returns Run defaults for a CLI invocation: info level logging
// and stdin as the only input.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Inputs:      []string{"-"},
	}
}
