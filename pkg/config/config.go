package config

// this holds the resolved configuration values from CLI
var (
	LogLevel  string // sets the log level (zap log level values)
	LogFormat string // text vs json
	LogFilter string // zapfilter rules applied to the default logger

	CSVOutput  string // path for telemetry CSV (auto-generated if empty)
	JSONOutput string // path for telemetry JSON
	GGVOutput  string // path for GGV diagram CSV
	HTMLOutput string // path for HTML lap report

	MaxIterations int     // solver iteration bound
	Tolerance     float64 // lap time convergence tolerance (s)

	SpeedUnit string // unit used for speeds in the console summary
)
