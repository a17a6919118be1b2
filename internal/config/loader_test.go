package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigDirs points the loader's user and project lookups at temp
// directories for the duration of a test.
func withConfigDirs(t *testing.T, home, wd string) {
	t.Helper()
	origHome := osUserHomeDir
	origWd := osGetwd
	osUserHomeDir = func() (string, error) { return home, nil }
	osGetwd = func() (string, error) { return wd, nil }
	t.Cleanup(func() {
		osUserHomeDir = origHome
		osGetwd = origWd
	})
}

func writeConfigFile(t *testing.T, dir, subdir, content string) {
	t.Helper()
	full := filepath.Join(dir, subdir)
	require.NoError(t, os.MkdirAll(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, configFileName), []byte(content), 0o644))
}

func TestLoadConfigDefaultsOnly(t *testing.T) {
	withConfigDirs(t, t.TempDir(), t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "evcharging", cfg.Compose.ProjectName)
	assert.Equal(t, "evcharging-cp", cfg.Worker.Image)
	assert.Equal(t, "evcharging_cp_", cfg.Worker.Pattern())
	assert.Equal(t, 30*time.Second, cfg.Waits.Infrastructure)
	assert.Equal(t, 15*time.Second, cfg.Waits.Workers)
	assert.NotEmpty(t, cfg.Services)

	var critical []string
	for _, svc := range cfg.Services {
		if svc.Critical {
			critical = append(critical, svc.Name)
		}
	}
	assert.Equal(t, []string{"charge-point"}, critical,
		"only the worker image build should be critical by default")
}

func TestLoadConfigUserOverlay(t *testing.T) {
	home := t.TempDir()
	withConfigDirs(t, home, t.TempDir())

	writeConfigFile(t, home, userConfigDir, `
registry:
  path: /var/lib/evcharging/registry.txt
waits:
  workers: 5s
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/evcharging/registry.txt", cfg.Registry.Path)
	assert.Equal(t, 5*time.Second, cfg.Waits.Workers)
	// untouched defaults survive
	assert.Equal(t, 30*time.Second, cfg.Waits.Infrastructure)
	assert.Equal(t, "evcharging-cp", cfg.Worker.Image)
}

func TestLoadConfigProjectOverridesUser(t *testing.T) {
	home := t.TempDir()
	wd := t.TempDir()
	withConfigDirs(t, home, wd)

	writeConfigFile(t, home, userConfigDir, `
compose:
  projectName: from-user
worker:
  basePort: 7000
`)
	writeConfigFile(t, wd, projectConfigDir, `
compose:
  projectName: from-project
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-project", cfg.Compose.ProjectName, "project layer wins")
	assert.Equal(t, 7000, cfg.Worker.BasePort, "user layer survives where project is silent")
}

func TestLoadConfigServicesMergeByName(t *testing.T) {
	wd := t.TempDir()
	withConfigDirs(t, t.TempDir(), wd)

	writeConfigFile(t, wd, projectConfigDir, `
services:
  - name: central
    tier: infra
    critical: true
    build:
      composeService: central
  - name: billing
    tier: app
    build:
      composeService: billing
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	defaults := GetDefaultConfig()
	assert.Len(t, cfg.Services, len(defaults.Services)+1, "new service appended, existing replaced in place")

	var central *ServiceSpec
	var billing *ServiceSpec
	for i := range cfg.Services {
		switch cfg.Services[i].Name {
		case "central":
			central = &cfg.Services[i]
		case "billing":
			billing = &cfg.Services[i]
		}
	}
	require.NotNil(t, central)
	require.NotNil(t, billing)
	assert.True(t, central.Critical, "overlay replaced the central spec")
	assert.Nil(t, central.Fallback, "replacement is wholesale, not field-wise")
	assert.Equal(t, "central", cfg.Services[0].Name, "base order preserved")
	assert.Equal(t, "billing", cfg.Services[len(cfg.Services)-1].Name, "new names appended")
}

func TestLoadConfigFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
worker:
  image: evcharging-cp-experimental
`), 0o644))

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "evcharging-cp-experimental", cfg.Worker.Image)
	assert.Equal(t, "evcharging", cfg.Compose.ProjectName, "defaults still underneath")
}

func TestLoadConfigFromPathMissingFile(t *testing.T) {
	_, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	wd := t.TempDir()
	withConfigDirs(t, t.TempDir(), wd)

	writeConfigFile(t, wd, projectConfigDir, "worker: [not a mapping")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestWorkerTemplatePattern(t *testing.T) {
	tpl := WorkerTemplate{NamePrefix: "evcharging_cp_"}
	assert.Equal(t, "evcharging_cp_", tpl.Pattern())

	tpl.NamePattern = "evcharging_cp_engine_"
	assert.Equal(t, "evcharging_cp_engine_", tpl.Pattern())
}

func TestBuildSourceIsComposeBuild(t *testing.T) {
	assert.True(t, BuildSource{ComposeService: "central"}.IsComposeBuild())
	assert.False(t, BuildSource{Context: "./cp", Tag: "evcharging-cp"}.IsComposeBuild())
}
