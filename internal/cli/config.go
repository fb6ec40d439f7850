package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seamline/pkg/errors"
)

// Config holds optional defaults loaded from the user's config file
// (~/.config/seamline/config.toml). Command-line flags always win over
// config values.
//
// Example file:
//
//	timeout = "2m"
//	max_nodes = 500000
//	no_cache = false
//	show_depot = true
type Config struct {
	// Timeout is the default solve time limit, as a Go duration string.
	Timeout duration `toml:"timeout"`

	// MaxNodes is the default branch-and-cut node limit.
	MaxNodes int `toml:"max_nodes"`

	// NoCache disables the result cache by default.
	NoCache bool `toml:"no_cache"`

	// ShowDepot includes the depot node in visualizations by default.
	ShowDepot bool `toml:"show_depot"`
}

// duration wraps time.Duration with TOML string decoding ("30s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements TOML string decoding for durations.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads the config file at path. A missing file is not an
// error and yields the zero config; a malformed file is INVALID_FORMAT.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	return cfg, nil
}
