package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and canonicalizes
// enum-like fields. It runs after decoding and before validation.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.SocketPath,
		&c.Paths.LUTDir,
		&c.Paths.BackupDir,
		&c.Paths.LogDir,
		&c.Paths.LooksDB,
		&c.Render.OutputDir,
	} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	if strings.TrimSpace(c.Scripting.APIPath) == "" {
		c.Scripting.APIPath = strings.TrimSpace(os.Getenv("RESOLVE_SCRIPT_API"))
	}
	if strings.TrimSpace(c.Scripting.LibPath) == "" {
		c.Scripting.LibPath = strings.TrimSpace(os.Getenv("RESOLVE_SCRIPT_LIB"))
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	c.Render.DefaultPreset = strings.ToLower(strings.TrimSpace(c.Render.DefaultPreset))
	if c.Render.PollIntervalSeconds == 0 {
		c.Render.PollIntervalSeconds = Default().Render.PollIntervalSeconds
	}
	if c.Bridge.DialTimeoutSeconds == 0 {
		c.Bridge.DialTimeoutSeconds = Default().Bridge.DialTimeoutSeconds
	}
	return nil
}
