// Package config holds the engine's process-wide constants and the
// RunOptions a parsed .hsf's @explore_option/@analyze_option section
// (plus an optional hibou.yaml project file) resolves into. Grounded
// on the teacher's internal/config/constants.go shape (a handful of
// exported constants plus extension helpers), with the file-extension
// list and default values replaced for HIBOU's own domain.
package config

// Version is the current hibou-go version.
var Version = "0.1.0"

// SpecFileExt is the extension of an interaction specification file.
const SpecFileExt = ".hsf"

// TraceFileExt is the extension of a multi-trace file, matching
// original_source/src/from_text/htf_file.rs's
// HIBOU_TRACE_FILE_EXTENSION literal "hxtf".
const TraceFileExt = ".hxtf"

// HasSpecExt reports whether path ends with SpecFileExt.
func HasSpecExt(path string) bool {
	return len(path) >= len(SpecFileExt) && path[len(path)-len(SpecFileExt):] == SpecFileExt
}

// HasTraceExt reports whether path ends with TraceFileExt.
func HasTraceExt(path string) bool {
	return len(path) >= len(TraceFileExt) && path[len(path)-len(TraceFileExt):] == TraceFileExt
}

// TrimSpecExt removes a trailing SpecFileExt from name, if present.
func TrimSpecExt(name string) string {
	if HasSpecExt(name) {
		return name[:len(name)-len(SpecFileExt)]
	}
	return name
}

// Default CLI flag values, used when the flag is not given on the
// command line (hibou.yaml has no entry for them).
const (
	DefaultDrawOutput = "out.dot"
)
