package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Call once at
// process start, before any Get* function is used.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	// 1. Walk up from CWD to find a project .cortex/config.yaml, so
	//    cortexctl works the same from any subdirectory of a checkout.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".cortex", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. XDG config dir (~/.config/cortexd/config.yaml).
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "cortexd", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory fallback (~/.cortexd/config.yaml).
	if !configFileSet {
		if home, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(home, ".cortexd", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix("CORTEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults()

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func setDefaults() {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".cortex")

	v.SetDefault("data-dir", dataDir)
	v.SetDefault("db-path", filepath.Join(dataDir, "cortex.db"))

	v.SetDefault("recordings-dir", filepath.Join(dataDir, "recordings"))
	v.SetDefault("notes-dir", filepath.Join(dataDir, "notes"))
	v.SetDefault("logs-dir", filepath.Join(dataDir, "logs"))
	v.SetDefault("uploads-dir", filepath.Join(dataDir, "uploads"))

	v.SetDefault("ble.enabled", true)
	v.SetDefault("ble.device-name", "cortex-bridge")
	v.SetDefault("ble.scan-timeout", "15s")
	v.SetDefault("ble.service-uuid", "0000fe40-cc7a-482a-984a-7f2ed5b3e58f")
	v.SetDefault("ble.rx-char-uuid", "0000fe41-cc7a-482a-984a-7f2ed5b3e58f")
	v.SetDefault("ble.tx-char-uuid", "0000fe42-cc7a-482a-984a-7f2ed5b3e58f")
	v.SetDefault("ble.pairing-cache", filepath.Join(dataDir, "pairing.toml"))

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.token-file", filepath.Join(dataDir, "api_token"))
	v.SetDefault("http.min-client-version", "v1.0.0")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir, "logs", "cortexd.log"))
	v.SetDefault("log.max-size-mb", 10)
	v.SetDefault("log.max-backups", 5)

	v.SetDefault("activity-log.file", filepath.Join(dataDir, "logs", "activity.jsonl"))
	v.SetDefault("activity-log.rotate-minutes", 15)

	v.SetDefault("lock-path", filepath.Join(dataDir, "cortexd.lock"))
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set overrides a configuration value, mainly for tests and flag binding.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// ConfigFileUsed returns the path of the config file that was loaded, or
// "" if none was found and defaults/env vars are in effect.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// DataDirs returns the four flat file-category directories the HTTP and
// runtime layers serve from, creating them if they don't exist yet.
func DataDirs() (recordings, notes, logs, uploads string, err error) {
	recordings = GetString("recordings-dir")
	notes = GetString("notes-dir")
	logs = GetString("logs-dir")
	uploads = GetString("uploads-dir")
	for _, dir := range []string{recordings, notes, logs, uploads} {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return "", "", "", "", fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	return recordings, notes, logs, uploads, nil
}
