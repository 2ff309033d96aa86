package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel       string  // sets the log level (zap log level values)
	LogFormat      string  // text vs json
	LogFilters     string  // zapfilter rules applied to named loggers
	HTTPServerAddr string  // listen addr for the HTTP API
	LapStore       string  // path to the sqlite lap store ("" means in-memory only)
	TrackProfiles  string  // path to a YAML track profile overlay
	WatchProfiles  bool    // reload the track profile overlay on change
	FuelBurnPerLap float64 // fuel burn in %/lap used by the pit window calculator
	PitServiceTime float64 // stationary pit service time in seconds
)
