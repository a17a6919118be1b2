package containerizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"evctl/pkg/logging"
)

// For mocking in tests
var execCommandContext = exec.CommandContext

// DockerRuntime implements Runtime by shelling out to the docker CLI,
// including `docker compose` for group operations.
type DockerRuntime struct {
	// ComposeFile is passed as `-f` to compose commands when set.
	ComposeFile string
	// ProjectName is passed as `-p` to compose commands when set.
	ProjectName string
}

var _ Runtime = (*DockerRuntime)(nil)

// run executes one docker command and returns its stdout. On failure the
// captured stderr is folded into the error so callers can log an actionable
// diagnostic without re-running the command.
func (d *DockerRuntime) run(ctx context.Context, args ...string) (string, error) {
	logging.Debug("Docker", "docker %s", strings.Join(args, " "))

	cmd := execCommandContext(ctx, "docker", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return stdout.String(), fmt.Errorf("docker %s: %w: %s", args[0], err, detail)
		}
		return stdout.String(), fmt.Errorf("docker %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// composeArgs prefixes compose subcommand arguments with the file and
// project flags configured on the runtime.
func (d *DockerRuntime) composeArgs(sub ...string) []string {
	args := []string{"compose"}
	if d.ComposeFile != "" {
		args = append(args, "-f", d.ComposeFile)
	}
	if d.ProjectName != "" {
		args = append(args, "-p", d.ProjectName)
	}
	return append(args, sub...)
}

func (d *DockerRuntime) BuildComposeService(ctx context.Context, service string) error {
	_, err := d.run(ctx, d.composeArgs("build", service)...)
	return err
}

func (d *DockerRuntime) BuildImage(ctx context.Context, opts BuildOptions) error {
	args := []string{"build"}
	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	args = append(args, opts.Context)
	_, err := d.run(ctx, args...)
	return err
}

func (d *DockerRuntime) ImageExists(ctx context.Context, tag string) (bool, error) {
	out, err := d.run(ctx, "images", "-q", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (d *DockerRuntime) Teardown(ctx context.Context) error {
	// `compose down` already succeeds when nothing is running, which is
	// exactly the idempotence the teardown phase relies on.
	_, err := d.run(ctx, d.composeArgs("down", "--remove-orphans")...)
	return err
}

func (d *DockerRuntime) StartGroup(ctx context.Context) error {
	_, err := d.run(ctx, d.composeArgs("up", "-d")...)
	return err
}

func (d *DockerRuntime) ResetNetworking(ctx context.Context) error {
	_, err := d.run(ctx, "network", "prune", "-f")
	return err
}

func (d *DockerRuntime) ListProcesses(ctx context.Context, namePattern string) ([]string, error) {
	out, err := d.run(ctx, "ps", "--filter", "name="+namePattern, "--format", "{{.Names}}")
	if err != nil {
		return nil, err
	}
	return splitNames(out), nil
}

func (d *DockerRuntime) ProcessExists(ctx context.Context, name string) (bool, error) {
	out, err := d.run(ctx, "ps", "-a", "--filter", "name="+name, "--format", "{{.Names}}")
	if err != nil {
		return false, err
	}
	return containsName(splitNames(out), name), nil
}

func (d *DockerRuntime) ProcessRunning(ctx context.Context, name string) (bool, error) {
	out, err := d.run(ctx, "ps", "--filter", "name="+name, "--format", "{{.Names}}")
	if err != nil {
		return false, err
	}
	return containsName(splitNames(out), name), nil
}

func (d *DockerRuntime) StartProcess(ctx context.Context, name string) error {
	_, err := d.run(ctx, "start", name)
	return err
}

func (d *DockerRuntime) Spawn(ctx context.Context, cfg ContainerConfig) (string, error) {
	args := []string{"run", "-d", "--name", cfg.Name}
	if cfg.Network != "" {
		args = append(args, "--network", cfg.Network)
	}
	for _, port := range cfg.Ports {
		args = append(args, "-p", port)
	}
	// Sorted for a stable command line; docker does not care, logs do.
	envKeys := make([]string, 0, len(cfg.Env))
	for k := range cfg.Env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		args = append(args, "-e", k+"="+cfg.Env[k])
	}
	args = append(args, cfg.Image)
	args = append(args, cfg.Args...)

	out, err := d.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (d *DockerRuntime) RemoveProcess(ctx context.Context, name string) error {
	_, err := d.run(ctx, "rm", "-f", name)
	return err
}

func (d *DockerRuntime) StreamLogs(ctx context.Context, out io.Writer) error {
	args := d.composeArgs("logs", "-f", "--tail", "100")
	logging.Debug("Docker", "docker %s", strings.Join(args, " "))

	cmd := execCommandContext(ctx, "docker", args...)
	cmd.Stdout = out
	cmd.Stderr = out
	err := cmd.Run()
	// Cancellation is how log streaming normally ends.
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// splitNames turns `docker ps --format {{.Names}}` output into a clean
// name slice.
func splitNames(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

// containsName does an exact match. Docker's name filter is a substring
// match, so "cp_1" also matches "cp_10"; the caller wants exactly one name.
func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
