package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/evctl"
	projectConfigDir = ".evctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the evctl configuration by layering default, user, and
// project settings, in that order of precedence (project wins).
func LoadConfig() (EvctlConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := LoadConfigFromFile(userConfigPath)
			if err != nil {
				return EvctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := LoadConfigFromFile(projectConfigPath)
			if err != nil {
				return EvctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

// LoadConfigFromPath loads the defaults overlaid with a single explicit
// config file, bypassing the user/project lookup. Used for --config.
func LoadConfigFromPath(path string) (EvctlConfig, error) {
	overlay, err := LoadConfigFromFile(path)
	if err != nil {
		return EvctlConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(GetDefaultConfig(), overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// LoadConfigFromFile loads an EvctlConfig from a YAML file.
func LoadConfigFromFile(filePath string) (EvctlConfig, error) {
	var config EvctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return EvctlConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return EvctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay EvctlConfig) EvctlConfig {
	merged := base

	if overlay.Compose.ProjectName != "" {
		merged.Compose.ProjectName = overlay.Compose.ProjectName
	}
	if overlay.Compose.File != "" {
		merged.Compose.File = overlay.Compose.File
	}
	if overlay.Compose.Network != "" {
		merged.Compose.Network = overlay.Compose.Network
	}

	// Services merge by name: an overlay spec replaces the base spec of the
	// same name and new names are appended, preserving base order.
	if len(overlay.Services) > 0 {
		byName := make(map[string]ServiceSpec, len(overlay.Services))
		for _, svc := range overlay.Services {
			byName[svc.Name] = svc
		}
		var services []ServiceSpec
		for _, svc := range merged.Services {
			if replacement, ok := byName[svc.Name]; ok {
				services = append(services, replacement)
				delete(byName, svc.Name)
			} else {
				services = append(services, svc)
			}
		}
		for _, svc := range overlay.Services {
			if _, pending := byName[svc.Name]; pending {
				services = append(services, svc)
				delete(byName, svc.Name)
			}
		}
		merged.Services = services
	}

	if overlay.Worker.Image != "" {
		merged.Worker.Image = overlay.Worker.Image
	}
	if overlay.Worker.NamePrefix != "" {
		merged.Worker.NamePrefix = overlay.Worker.NamePrefix
	}
	if overlay.Worker.NamePattern != "" {
		merged.Worker.NamePattern = overlay.Worker.NamePattern
	}
	if overlay.Worker.Network != "" {
		merged.Worker.Network = overlay.Worker.Network
	}
	if overlay.Worker.BasePort != 0 {
		merged.Worker.BasePort = overlay.Worker.BasePort
	}
	if len(overlay.Worker.Env) > 0 {
		merged.Worker.Env = overlay.Worker.Env
	}
	if len(overlay.Worker.Args) > 0 {
		merged.Worker.Args = overlay.Worker.Args
	}
	if overlay.Worker.Concurrency != 0 {
		merged.Worker.Concurrency = overlay.Worker.Concurrency
	}

	if overlay.Registry.Path != "" {
		merged.Registry.Path = overlay.Registry.Path
	}

	if overlay.Waits.Infrastructure != 0 {
		merged.Waits.Infrastructure = overlay.Waits.Infrastructure
	}
	if overlay.Waits.Workers != 0 {
		merged.Waits.Workers = overlay.Waits.Workers
	}
	if overlay.Waits.LaunchRetryPause != 0 {
		merged.Waits.LaunchRetryPause = overlay.Waits.LaunchRetryPause
	}

	if overlay.Journal.Path != "" {
		merged.Journal.Path = overlay.Journal.Path
	}
	if overlay.Journal.Disabled {
		merged.Journal.Disabled = true
	}

	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// DefaultJournalPath resolves where the run journal lives when the config
// does not name one: <user config dir>/history.db.
func DefaultJournalPath() (string, error) {
	dir, err := GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
