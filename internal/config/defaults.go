package config

import (
	"path/filepath"
	"time"
)

// GetDefaultConfig returns the built-in configuration: the full EV charging
// simulation fleet. User and project config files overlay these values.
func GetDefaultConfig() EvctlConfig {
	return EvctlConfig{
		Compose: ComposeSettings{
			ProjectName: "evcharging",
			Network:     "evcharging_net",
		},
		Services: []ServiceSpec{
			{
				Name:     "central",
				Tier:     TierInfra,
				Build:    BuildSource{ComposeService: "central"},
				Fallback: &BuildSource{Context: "./central", Tag: "evcharging-central"},
			},
			{
				Name:     "registry",
				Tier:     TierInfra,
				Build:    BuildSource{ComposeService: "registry"},
				Fallback: &BuildSource{Context: "./registry", Tag: "evcharging-registry"},
			},
			{
				Name:     "driver",
				Tier:     TierApp,
				Build:    BuildSource{ComposeService: "driver"},
				Fallback: &BuildSource{Context: "./driver", Tag: "evcharging-driver"},
			},
			{
				Name:     "weather",
				Tier:     TierApp,
				Build:    BuildSource{ComposeService: "weather"},
				Fallback: &BuildSource{Context: "./weather", Tag: "evcharging-weather"},
			},
			{
				Name:     "frontend",
				Tier:     TierApp,
				Build:    BuildSource{ComposeService: "frontend"},
				Fallback: &BuildSource{Context: "./frontend", Tag: "evcharging-frontend"},
			},
			{
				Name:     "manager",
				Tier:     TierApp,
				Build:    BuildSource{ComposeService: "manager"},
				Fallback: &BuildSource{Context: "./manager", Tag: "evcharging-manager"},
			},
			{
				// Without this image the reconciler cannot spawn anything,
				// so its build failure aborts the run.
				Name:     "charge-point",
				Tier:     TierWorker,
				Critical: true,
				Build:    BuildSource{Context: "./cp", Tag: "evcharging-cp"},
				Fallback: &BuildSource{ComposeService: "cp"},
			},
		},
		Worker: WorkerTemplate{
			Image:      "evcharging-cp",
			NamePrefix: "evcharging_cp_",
			Network:    "evcharging_net",
			BasePort:   6000,
			Env: map[string]string{
				"KAFKA_BROKER": "kafka:9092",
			},
			Args:        []string{"{id}", "{addr}", "{port}"},
			Concurrency: 4,
		},
		Registry: RegistrySettings{
			Path: filepath.Join("data", "registry.txt"),
		},
		Waits: WaitSettings{
			Infrastructure:   30 * time.Second,
			Workers:          15 * time.Second,
			LaunchRetryPause: 5 * time.Second,
		},
		Journal:  JournalSettings{},
		LogLevel: "info",
	}
}
