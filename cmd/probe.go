package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether git is usable for the check directory",
		Args:  cobra.NoArgs,
		RunE:  runProbe,
	}
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.Dir()
	timeout := cfg.VCS.Timeout
	if timeout == 0 {
		timeout = vcs.DefaultTimeout()
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "directory: %s\n", dir)
	_, _ = fmt.Fprintf(out, "backend:   %s\n", cfg.VCS.Backend)
	_, _ = fmt.Fprintf(out, "timeout:   %s\n", timeout)

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(out, "status:    unavailable (directory does not exist)")
		return nil
	}

	store, err := vcs.Open(dir, vcs.Options{Backend: cfg.VCS.Backend, Timeout: timeout, GitBinary: cfg.VCS.GitBinary})
	if err != nil {
		return err
	}
	start := time.Now()
	state := vcs.AvailabilityUnavailable
	if store.Available(cmd.Context()) {
		state = vcs.AvailabilityWorking
	}
	_, _ = fmt.Fprintf(out, "status:    %s (%s)\n", state, time.Since(start).Round(time.Millisecond))
	return nil
}
