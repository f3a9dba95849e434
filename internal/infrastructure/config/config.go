package config

import "github.com/kelseyhightower/envconfig"

// Database holds libsql database configuration. The default is a local
// file database; a remote Turso URL plus auth token works too.
type Database struct {
	URL       string `envconfig:"BUILDLOG_DATABASE_URL" default:"file:./buildlog.db"`
	AuthToken string `envconfig:"BUILDLOG_AUTH_TOKEN"`
}

// Nudges holds the nudge policy thresholds in seconds. Defaults match
// the production policy; shrink them to watch the nudges fire quickly.
type Nudges struct {
	DebugCheckpointSeconds int64 `envconfig:"BUILDLOG_DEBUG_CHECKPOINT_SECONDS" default:"3600"`
	DebugCutoffSeconds     int64 `envconfig:"BUILDLOG_DEBUG_CUTOFF_SECONDS" default:"5400"`
	BuildingBreakSeconds   int64 `envconfig:"BUILDLOG_BUILDING_BREAK_SECONDS" default:"7200"`
}

// Server holds configuration for the API server.
type Server struct {
	Database Database
	Nudges   Nudges
	Port     int    `envconfig:"BUILDLOG_PORT" default:"8080"`
	UserID   string `envconfig:"BUILDLOG_USER_ID" default:"local"`
}

// LoadServer loads server configuration from environment variables.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Nudges); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
