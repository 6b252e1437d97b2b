package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Keyboard: KeyboardConfig{
			Idiom:              "phone",
			Definition:         "qwerty-phone",
			HasInputModeSwitch: true,
		},
		Engine: EngineConfig{
			DataDir:         filepath.Join(PlatformDataDir(), "engine"),
			UserDataDir:     filepath.Join(PlatformDataDir(), "user"),
			ToneScheme:      ToneSchemeLongPress,
			EnableCorrector: false,
			CandidateLimit:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DefaultPath returns the platform-specific config file path.
func DefaultPath() string {
	return filepath.Join(PlatformConfigDir(), "softboard.toml")
}

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/softboard/
//   - Linux:   ~/.local/share/softboard/
//   - Windows: %APPDATA%\softboard\
//
// Falls back to ~/.softboard if platform detection fails.
func PlatformDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "softboard")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return fallbackDir()
		}
		return filepath.Join(appData, "softboard")
	case "linux":
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, _ := os.UserHomeDir()
			dataHome = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(dataHome, "softboard")
	default:
		return fallbackDir()
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/softboard/
//   - Linux:   ~/.config/softboard/
//   - Windows: %APPDATA%\softboard\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "linux":
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, "softboard")
	default:
		// macOS and Windows use the data dir for config too.
		return PlatformDataDir()
	}
}

func fallbackDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".softboard")
}
