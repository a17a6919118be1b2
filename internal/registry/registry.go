// Package registry reads the worker registry file: the persisted, line-
// oriented list of charge-point descriptors that should exist. The file is
// owned by the external manager component; evctl only ever reads it.
package registry

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"evctl/pkg/logging"
)

// WorkerDescriptor identifies one charge-point worker that should exist.
// One descriptor is encoded as a JSON object per registry line.
type WorkerDescriptor struct {
	ID        string    `json:"id"`
	Addr      string    `json:"addr,omitempty"`
	Port      int       `json:"port,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Ordinal extracts the numeric part of the descriptor ID used for container
// naming and port assignment. IDs follow the "<prefix>-<n>" convention
// (e.g. "cp-7"); for anything else the trailing digit run is used. The
// second return is false when the ID carries no number at all.
func (d WorkerDescriptor) Ordinal() (int, bool) {
	if _, after, found := strings.Cut(d.ID, "-"); found {
		if n, err := strconv.Atoi(after); err == nil && n >= 0 {
			return n, true
		}
	}

	end := len(d.ID)
	start := end
	for start > 0 && d.ID[start-1] >= '0' && d.ID[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(d.ID[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ContainerName derives the stable container name for this descriptor. The
// name is what makes reconciliation idempotent: the same descriptor always
// maps to the same container.
func (d WorkerDescriptor) ContainerName(prefix string) string {
	if n, ok := d.Ordinal(); ok {
		return prefix + strconv.Itoa(n)
	}
	return prefix + sanitizeName(d.ID)
}

// HostPort resolves the port the worker container is published on: the
// descriptor's own port when set, otherwise basePort plus the ordinal.
// Zero means no port can be derived and the container gets no mapping.
func (d WorkerDescriptor) HostPort(basePort int) int {
	if d.Port > 0 {
		return d.Port
	}
	if n, ok := d.Ordinal(); ok && basePort > 0 {
		return basePort + n
	}
	return 0
}

// sanitizeName reduces an arbitrary ID to the character set docker accepts
// in container names.
func sanitizeName(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Load reads all descriptors from the registry file. A missing file is
// treated identically to an empty file: zero workers expected, no error.
// Malformed lines are skipped with a warning so one bad append from the
// manager cannot hide the valid descriptors around it.
func Load(path string) ([]WorkerDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("Registry", "registry file %s does not exist; zero workers expected", path)
			return nil, nil
		}
		return nil, err
	}

	var workers []WorkerDescriptor
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var d WorkerDescriptor
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			logging.Warn("Registry", "skipping malformed registry line %d: %v", i+1, err)
			continue
		}
		if d.ID == "" {
			logging.Warn("Registry", "skipping registry line %d: descriptor has no id", i+1)
			continue
		}
		workers = append(workers, d)
	}
	return workers, nil
}
