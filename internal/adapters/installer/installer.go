// Package installer provides the installation strategies applied to a
// clone after it has been brought up to date: NONE, SHELL and STOW.
package installer

import (
	"context"
	"fmt"
	"io"

	"github.com/drover-cli/drover/internal/domain"
)

// Logger defines the logging interface for the installer adapters.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// New returns the strategy selector used as domain.InstallerFor. Shell
// scripts write to stdout/stderr; stow symlinks are farmed into
// stowTarget.
func New(logger Logger, stowTarget string, stdout, stderr io.Writer) domain.InstallerFor {
	none := NewNoneInstaller(logger)
	shell := NewShellInstaller(logger, stdout, stderr)
	stow := NewStowInstaller(logger, stowTarget)

	return func(t domain.InstallType) (domain.Installer, error) {
		switch t {
		case domain.InstallTypeNone:
			return none, nil
		case domain.InstallTypeShell:
			return shell, nil
		case domain.InstallTypeStow:
			return stow, nil
		default:
			return nil, fmt.Errorf("%w: no installer for type %q", domain.ErrInvalidConfiguration, string(t))
		}
	}
}
