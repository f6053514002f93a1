package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
)

var originPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !originPattern.MatchString(c.Origin) {
		return fmt.Errorf("origin %q must be a letter or underscore followed by letters, digits or underscores", c.Origin)
	}
	if c.BuiltinsOrigin == "" {
		return fmt.Errorf("builtins_origin is required")
	}
	if c.BuiltinsOrigin == c.Origin {
		return fmt.Errorf("builtins_origin must differ from origin %q", c.Origin)
	}
	if c.ScriptsDir == "" {
		return fmt.Errorf("scripts_dir is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if !output.Valid(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.OutputFormat, joinModes())
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.ScriptsDir); os.IsNotExist(err) {
		return fmt.Errorf("scripts directory does not exist: %s\nHint: Create the directory or use --scripts-dir to specify a different path", c.ScriptsDir)
	}
	return nil
}

func joinModes() string {
	names := make([]string, len(output.Modes))
	for i, m := range output.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
