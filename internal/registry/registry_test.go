package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	workers, err := Load(filepath.Join(t.TempDir(), "registry.txt"))
	require.NoError(t, err, "a missing registry means zero workers expected, not an error")
	assert.Empty(t, workers)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeRegistry(t, "")
	workers, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestLoadParsesDescriptors(t *testing.T) {
	path := writeRegistry(t, `{"id":"cp-1","addr":"central:5000","port":6001,"createdAt":"2026-08-01T10:00:00Z"}
{"id":"cp-2","addr":"central:5000","port":6002}

{"id":"cp-3","addr":"central:5000"}
`)

	workers, err := Load(path)
	require.NoError(t, err)
	require.Len(t, workers, 3)

	assert.Equal(t, "cp-1", workers[0].ID)
	assert.Equal(t, "central:5000", workers[0].Addr)
	assert.Equal(t, 6001, workers[0].Port)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), workers[0].CreatedAt)

	assert.Equal(t, "cp-3", workers[2].ID)
	assert.Zero(t, workers[2].Port)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeRegistry(t, `{"id":"cp-1"}
this is not json
{"addr":"no id here"}
{"id":"cp-4"}
`)

	workers, err := Load(path)
	require.NoError(t, err, "malformed lines must not hide the valid ones")
	require.Len(t, workers, 2)
	assert.Equal(t, "cp-1", workers[0].ID)
	assert.Equal(t, "cp-4", workers[1].ID)
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		id     string
		want   int
		wantOK bool
	}{
		{"cp-7", 7, true},
		{"cp-0", 0, true},
		{"chargepoint-42", 42, true},
		{"cp12", 12, true},
		{"cp-x3", 3, true}, // not "<prefix>-<n>", but has a trailing digit run
		{"alpha", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := WorkerDescriptor{ID: tt.id}.Ordinal()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestContainerName(t *testing.T) {
	assert.Equal(t, "evcharging_cp_7", WorkerDescriptor{ID: "cp-7"}.ContainerName("evcharging_cp_"))
	assert.Equal(t, "evcharging_cp_alpha", WorkerDescriptor{ID: "alpha"}.ContainerName("evcharging_cp_"))
	assert.Equal(t, "evcharging_cp_a_b", WorkerDescriptor{ID: "a b"}.ContainerName("evcharging_cp_"))
}

func TestContainerNameIsStable(t *testing.T) {
	d := WorkerDescriptor{ID: "cp-3", Addr: "central:5000"}
	first := d.ContainerName("evcharging_cp_")
	second := d.ContainerName("evcharging_cp_")
	assert.Equal(t, first, second)
}

func TestHostPort(t *testing.T) {
	// explicit port wins
	assert.Equal(t, 7500, WorkerDescriptor{ID: "cp-1", Port: 7500}.HostPort(6000))
	// derived from ordinal
	assert.Equal(t, 6003, WorkerDescriptor{ID: "cp-3"}.HostPort(6000))
	// nothing derivable
	assert.Equal(t, 0, WorkerDescriptor{ID: "alpha"}.HostPort(6000))
	assert.Equal(t, 0, WorkerDescriptor{ID: "cp-3"}.HostPort(0))
}

func TestWatcherSignalsOnAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"cp-1"}`+"\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"cp-2"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal after appending to the registry")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.txt")

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("sibling file changes must not signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSignalsOnCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.txt")

	// Watch before the file exists; first write creates it.
	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"id":"cp-1"}`+"\n"), 0o644))

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal when the registry file appears")
	}
}
