package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Default returns the repository default configuration. Paths are expanded
// during normalization, not here.
func Default() Config {
	return Config{
		Paths: Paths{
			SocketPath: "~/.local/share/gradectl/bridge.sock",
			LUTDir:     defaultLUTDir(),
			BackupDir:  "~/.local/share/gradectl/backups",
			LogDir:     "~/.local/share/gradectl/logs",
			LooksDB:    "~/.local/share/gradectl/looks.db",
		},
		Render: Render{
			OutputDir:           "~/renders",
			DefaultPreset:       "h264_high",
			PollIntervalSeconds: 5,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Bridge: Bridge{
			DialTimeoutSeconds: 2,
		},
	}
}

// defaultLUTDir is where the host scans for LUT files on each platform.
func defaultLUTDir() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Library/Application Support/Blackmagic Design/DaVinci Resolve/LUT"
	case "windows":
		base := os.Getenv("PROGRAMDATA")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, "Blackmagic Design", "DaVinci Resolve", "Support", "LUT")
	default:
		return "~/.local/share/DaVinciResolve/LUT"
	}
}
