package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Generated files, errors with hints, final status
//	1 (-v)      - + Per-unit progress, skipped declarations, macro warnings
//	2 (-vv)     - + Filter decisions, TypeMap hits, config loaded
//	3 (-vvv)    - + Every rendered signature

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputGeneratedFiles OutputCategory = iota // "Generated 'foo.h'" lines
	OutputErrors                               // Errors with hints
	OutputUserStatus                           // Final success/failure status

	// Level 1 (-v) - Informational
	OutputUnitProgress  // Unit started/finished
	OutputSkippedDecls  // Declarations aborted with an unsupported construct
	OutputMacroWarnings // Macro expressions that did not parse as numbers

	// Level 2 (-vv) - Detailed
	OutputFilterDecisions // Why a method was excluded
	OutputTypeMapHits     // Which TypeMap rendered a type
	OutputConfig          // Config values loaded/applied

	// Level 3 (-vvv) - Trace
	OutputSignatures // Every rendered signature
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputGeneratedFiles: VerbosityUser,
	OutputErrors:         VerbosityUser,
	OutputUserStatus:     VerbosityUser,

	OutputUnitProgress:  VerbosityInfo,
	OutputSkippedDecls:  VerbosityInfo,
	OutputMacroWarnings: VerbosityInfo,

	OutputFilterDecisions: VerbosityDebug,
	OutputTypeMapHits:     VerbosityDebug,
	OutputConfig:          VerbosityDebug,

	OutputSignatures: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
