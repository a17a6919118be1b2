package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/fleet"
	"evctl/internal/provisioner"
	"evctl/pkg/logging"
)

// stubRuntime satisfies the Runtime parameter; the tests below never execute
// the commands that would touch it.
type stubRuntime struct {
	containerizer.Runtime
}

func testModel() *Model {
	cfg := config.EvctlConfig{
		Compose: config.ComposeSettings{ProjectName: "evcharging", Network: "evcharging_net"},
		Services: []config.ServiceSpec{
			{Name: "central", Tier: config.TierInfra},
		},
		Worker:   config.WorkerTemplate{Image: "evcharging-cp", NamePrefix: "evcharging_cp_", BasePort: 6000},
		Registry: config.RegistrySettings{Path: "data/registry.txt"},
	}
	regEvents := make(chan struct{}, 1)
	return NewModel(&stubRuntime{}, cfg, nil, regEvents)
}

func resized(m *Model) *Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(*Model)
}

func TestUpdate_WindowSizeMakesModelReady(t *testing.T) {
	m := testModel()
	assert.False(t, m.ready)

	m = resized(m)

	assert.True(t, m.ready)
	assert.Equal(t, 100, m.width)
	assert.Greater(t, m.logView.Height, 0)
}

func TestUpdate_SnapshotStored(t *testing.T) {
	m := resized(testModel())

	snap := fleet.Snapshot{
		Project:  "evcharging",
		Services: []fleet.ServiceState{{Name: "central", Tier: "infra", Running: true}},
		Workers:  []fleet.WorkerState{{ID: "cp-1", Name: "evcharging_cp_1", Port: 6001, Running: true, Enrolled: true}},
	}
	updated, cmd := m.Update(snapshotMsg{Snap: snap})
	m = updated.(*Model)

	assert.Nil(t, cmd)
	assert.Equal(t, snap, m.snapshot)
	assert.NoError(t, m.snapErr)
}

func TestUpdate_RegistryChangeTriggersReconcile(t *testing.T) {
	m := resized(testModel())

	updated, cmd := m.Update(registryChangedMsg{})
	m = updated.(*Model)

	assert.True(t, m.reconciling)
	assert.NotNil(t, cmd, "expects a batched reconcile command and reader re-arm")
}

func TestUpdate_RegistryChangeWhileReconcilingDoesNotStack(t *testing.T) {
	m := resized(testModel())
	m.reconciling = true

	updated, _ := m.Update(registryChangedMsg{})
	m = updated.(*Model)

	assert.True(t, m.reconciling, "still the original pass")
}

func TestUpdate_ReconcileDone(t *testing.T) {
	m := resized(testModel())
	m.reconciling = true

	res := provisioner.Result{Total: 2, Provisioned: 2}
	updated, cmd := m.Update(reconcileDoneMsg{Result: res})
	m = updated.(*Model)

	assert.False(t, m.reconciling)
	assert.Equal(t, res, m.lastReconcile)
	assert.False(t, m.lastReconcileAt.IsZero())
	assert.NotNil(t, cmd, "refreshes the snapshot after reconciling")
}

func TestUpdate_ReconcileFailureKept(t *testing.T) {
	m := resized(testModel())
	m.reconciling = true

	updated, _ := m.Update(reconcileDoneMsg{Err: errors.New("registry unreadable")})
	m = updated.(*Model)

	assert.False(t, m.reconciling)
	assert.ErrorContains(t, m.reconcileErr, "registry unreadable")
	assert.True(t, m.lastReconcileAt.IsZero(), "a failed pass is not a reconcile")
}

func TestUpdate_QuitKey(t *testing.T) {
	m := resized(testModel())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(*Model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_ReconcileKey(t *testing.T) {
	m := resized(testModel())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = updated.(*Model)

	assert.True(t, m.reconciling)
	assert.NotNil(t, cmd)

	// A second press while running is ignored.
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = updated.(*Model)
	assert.True(t, m.reconciling)
	assert.Nil(t, cmd)
}

func TestUpdate_HelpToggle(t *testing.T) {
	m := resized(testModel())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	m = updated.(*Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keybindings")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	m = updated.(*Model)
	assert.False(t, m.showHelp)
}

func TestAppendLog_CapsRingBuffer(t *testing.T) {
	m := resized(testModel())

	for i := 0; i < maxLogLines+25; i++ {
		updated, _ := m.Update(logEntryMsg(logging.LogEntry{
			Timestamp: time.Now(),
			Level:     logging.LevelInfo,
			Subsystem: "Reconciler",
			Message:   fmt.Sprintf("entry %d", i),
		}))
		m = updated.(*Model)
	}

	assert.Len(t, m.logs, maxLogLines)
	assert.Equal(t, fmt.Sprintf("entry %d", maxLogLines+24), m.logs[len(m.logs)-1].Message)
}

func TestView_ShowsFleetPanels(t *testing.T) {
	m := resized(testModel())

	updated, _ := m.Update(snapshotMsg{Snap: fleet.Snapshot{
		Project:  "evcharging",
		Services: []fleet.ServiceState{{Name: "central", Tier: "infra", Running: true}},
		Workers: []fleet.WorkerState{
			{ID: "cp-1", Name: "evcharging_cp_1", Port: 6001, Running: true, Enrolled: true},
			{Name: "evcharging_cp_9", Running: true},
		},
	}})
	m = updated.(*Model)

	out := m.View()
	assert.Contains(t, out, "evctl watch: evcharging")
	assert.Contains(t, out, "Services")
	assert.Contains(t, out, "Charge points 2/1")
	assert.Contains(t, out, "central")
	assert.Contains(t, out, "(stray)")
	assert.Contains(t, out, "Activity")
}

func TestView_BeforeFirstResize(t *testing.T) {
	m := testModel()
	assert.Contains(t, m.View(), "starting dashboard")
}

func TestOverallState(t *testing.T) {
	m := resized(testModel())

	m.snapshot = fleet.Snapshot{
		Services: []fleet.ServiceState{{Name: "central", Running: true}},
		Workers:  []fleet.WorkerState{{ID: "cp-1", Running: true, Enrolled: true}},
	}
	state, _ := m.overallState()
	assert.Contains(t, state, "healthy")

	m.snapshot.Workers[0].Running = false
	state, _ = m.overallState()
	assert.Contains(t, state, "degraded")

	m.snapErr = errors.New("docker daemon unreachable")
	state, _ = m.overallState()
	assert.Contains(t, state, "docker daemon unreachable")

	m.reconciling = true
	state, _ = m.overallState()
	assert.Contains(t, state, "reconciling")
}
