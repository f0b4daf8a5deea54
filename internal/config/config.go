package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// Config holds the settings a scan reads from a config file or the
// environment. Command-line flags take precedence over all of these.
type Config struct {
	// Severities overrides the default kind-to-severity table. Keys are
	// import kind names, values are severity names.
	Severities map[string]string `mapstructure:"severities"`
	// SearchPath lists extra directories to search for the package root.
	SearchPath []string `mapstructure:"search_path"`
	// Format is the default output format.
	Format string `mapstructure:"format"`
	// FailOn makes the scan exit non-zero when a cycle of at least this
	// severity is found. Empty disables the check.
	FailOn string `mapstructure:"fail_on"`
}

// Load reads configuration from the given file and the BYECYCLE environment
// prefix. An empty path loads environment settings only; a missing file at an
// explicit path is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BYECYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Policy builds the effective severity policy: the default table with the
// configured overrides applied on top. Unknown kinds and unknown severities
// are errors.
func (c *Config) Policy() (modgraph.SeverityPolicy, error) {
	overrides := make(modgraph.SeverityPolicy, len(c.Severities))
	for name, value := range c.Severities {
		kind, err := modgraph.ParseImportKind(name)
		if err != nil {
			return nil, fmt.Errorf("severities config: %w", err)
		}
		sev, err := modgraph.ParseSeverity(value)
		if err != nil {
			return nil, fmt.Errorf("severities config for kind %q: %w", name, err)
		}
		overrides[kind] = sev
	}
	return modgraph.DefaultSeverityPolicy().Override(overrides), nil
}

// FailOnSeverity parses the configured failure threshold. The second return
// is false when no threshold is configured.
func (c *Config) FailOnSeverity() (modgraph.Severity, bool, error) {
	if c.FailOn == "" {
		return "", false, nil
	}
	sev, err := modgraph.ParseSeverity(c.FailOn)
	if err != nil {
		return "", false, fmt.Errorf("fail_on config: %w", err)
	}
	return sev, true, nil
}
