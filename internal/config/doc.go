// Package config provides configuration management for evctl.
//
// This package implements a layered configuration system that allows users
// to customize evctl's behavior through YAML files. Configuration is loaded
// from multiple sources and merged in a specific order, with later sources
// overriding earlier ones.
//
// # Configuration Layers
//
// Configuration is loaded and merged in the following order:
//
//  1. Default Configuration (embedded in binary)
//     - The full EV charging simulation fleet with sensible defaults
//     - Ensures evctl works out-of-the-box in the project checkout
//
//  2. User Configuration (~/.config/evctl/config.yaml)
//     - User-specific settings that apply to all projects
//
//  3. Project Configuration (./.evctl/config.yaml)
//     - Project-specific settings in the current directory
//     - Allows teams to share configuration via version control
//
// # Configuration Structure
//
// The configuration file uses YAML format with the following main sections:
//
//	compose:
//	  projectName: "evcharging"
//	  file: "docker-compose.yml"
//	  network: "evcharging_net"
//
//	services:
//	  - name: "central"
//	    tier: "infra"
//	    build:
//	      composeService: "central"
//	    fallback:
//	      context: "./central"
//	      tag: "evcharging-central"
//	  - name: "charge-point"
//	    tier: "worker"
//	    critical: true           # build failure aborts the run
//	    build:
//	      context: "./cp"
//	      tag: "evcharging-cp"
//
//	worker:
//	  image: "evcharging-cp"
//	  namePrefix: "evcharging_cp_"
//	  basePort: 6000
//	  env:
//	    KAFKA_BROKER: "kafka:9092"
//	  args: ["{id}", "{addr}", "{port}"]
//	  concurrency: 4
//
//	registry:
//	  path: "data/registry.txt"
//
//	waits:
//	  infrastructure: 30s
//	  workers: 15s
//
// Services merge by name across layers: an overlay spec replaces the base
// spec of the same name; new names are appended. Scalar settings replace
// the base value only when set in the overlay.
package config
