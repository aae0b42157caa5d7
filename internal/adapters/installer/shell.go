package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/drover-cli/drover/internal/domain"
)

// ShellInstaller runs the install script shipped inside the clone. The
// script is executed with sh, with the record's execution directory as
// working directory, and inherits the process environment.
type ShellInstaller struct {
	logger Logger
	stdout io.Writer
	stderr io.Writer
}

// NewShellInstaller creates the shell strategy. Script output is piped
// to the given writers.
func NewShellInstaller(logger Logger, stdout, stderr io.Writer) *ShellInstaller {
	return &ShellInstaller{
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Install runs install.sh from the record's execution directory.
// Returns ErrInstallScriptMissing when the script is absent and
// ErrInstallScriptFailed when it exits non-zero.
func (i *ShellInstaller) Install(ctx context.Context, rec *domain.RepositoryRecord) error {
	workDir := rec.WorkDir()
	script := filepath.Join(workDir, domain.InstallScriptName)

	if _, err := os.Stat(script); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrInstallScriptMissing, script)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrInstallScriptMissing, script, err)
	}

	if _, err := exec.LookPath("sh"); err != nil {
		return fmt.Errorf("%w: sh not found in PATH", domain.ErrInstallScriptFailed)
	}

	i.logger.Debug(ctx, "Running install script", map[string]interface{}{
		"url":    rec.URL,
		"script": script,
		"dir":    workDir,
	})

	cmd := exec.CommandContext(ctx, "sh", domain.InstallScriptName)
	cmd.Dir = workDir
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", domain.ErrInstallScriptFailed, script, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrInstallScriptFailed, script, err)
	}
	return nil
}
