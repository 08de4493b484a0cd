/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/goldencheck/pkg/buildinfo"
	"github.com/fulmenhq/goldencheck/pkg/encode"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show goldencheck version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show build information")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

type versionInfo struct {
	Version       string `json:"version"`
	ModuleVersion string `json:"moduleVersion,omitempty"`
	GoVersion     string `json:"goVersion"`
	Platform      string `json:"platform"`
	Arch          string `json:"arch"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	info := versionInfo{
		Version:       buildinfo.BinaryVersion,
		ModuleVersion: buildinfo.ModuleVersion(),
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS,
		Arch:          runtime.GOARCH,
	}

	if jsonOutput {
		data, err := encode.JSON(info, encode.JSONOptions{})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	_, _ = fmt.Fprintf(out, "goldencheck %s\n", info.Version)
	if extended {
		if info.ModuleVersion != "" {
			_, _ = fmt.Fprintf(out, "module:   %s\n", info.ModuleVersion)
		}
		_, _ = fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
		_, _ = fmt.Fprintf(out, "platform: %s/%s\n", info.Platform, info.Arch)
	}
	return nil
}
