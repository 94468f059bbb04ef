// Package settings holds build metadata and the per-run settings that the
// kvlens CLI threads through context.Context.
package settings

// CliBinaryName is the canonical binary name.
const CliBinaryName = "kvlens"

// EnvPrefix prefixes every environment variable kvlens reads.
const EnvPrefix = "KVLENS_"

// VersionInformation is set at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Source says where the document came from.
type Source struct {
	Path  string
	Stdin bool
}

// Label names the source for logs and titles.
func (s Source) Label() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.Stdin:
		return "<stdin>"
	default:
		return "<none>"
	}
}

// Run holds the settings of one execution.
type Run struct {
	MinLogLevel int8
	Source      Source
	NoColor     bool
	Width       int
	Interactive bool
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI run.
func NewCliParams() *Run {
	return &Run{
		ExitOnError: true,
	}
}
