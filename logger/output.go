package logger

// OutputCategory controls WHAT is printed by the CLI at each verbosity,
// independently of log severity.
//
//	0 (default) - results and errors
//	1 (-v)      - + load progress, feed status
//	2 (-vv)     - + per-event resolution outcomes, timing, config
//	3 (-vvv)    - + rejected dump rows, SQL statements
type OutputCategory int

const (
	OutputResults OutputCategory = iota
	OutputErrors

	OutputProgress
	OutputFeedStatus

	OutputOutcomes
	OutputTiming
	OutputConfig

	OutputRejects
	OutputSQL
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress:   VerbosityInfo,
	OutputFeedStatus: VerbosityInfo,

	OutputOutcomes: VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,

	OutputRejects: VerbosityTrace,
	OutputSQL:     VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputProgress:   "progress",
	OutputFeedStatus: "feed-status",
	OutputOutcomes:   "outcomes",
	OutputTiming:     "timing",
	OutputConfig:     "config",
	OutputRejects:    "rejects",
	OutputSQL:        "sql",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
