package modelsync

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for artifact synchronization.
// The returned command should be added to a parent CLI's root command.
//
// Commands provided:
//   - sync run [--recompile]
//   - sync check
//   - sync digest
//   - sync path [--compiled]
//   - sync prune
//
// Global flags: --json, --quiet, --verbose
func NewCommand(cfg Config, opts ...Option) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
		verbose    bool
	)

	// Synchronizer is created in PersistentPreRunE
	var syncer Synchronizer

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the ML model artifact",
		Long:  "Keep the local ML model artifact in sync with the remote publishing service.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip synchronizer creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			syncer, err = NewSynchronizer(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize synchronizer: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(runCmd(&syncer, &jsonOutput, &quiet))
	cmd.AddCommand(checkCmd(&syncer, &jsonOutput))
	cmd.AddCommand(digestCmd(&syncer))
	cmd.AddCommand(pathCmd(&syncer))
	cmd.AddCommand(pruneCmd(&syncer, &quiet))

	return cmd
}

func runCmd(syncer *Synchronizer, jsonOutput, quiet *bool) *cobra.Command {
	var recompile bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Synchronize the artifact",
		Long:  "Download the artifact if the remote version differs, then resolve the runnable artifact.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var opts []SyncOption
			if recompile {
				opts = append(opts, WithForceCompile())
			}

			if !*quiet && !*jsonOutput {
				var lastPhase string
				opts = append(opts, WithProgress(func(p Progress) {
					switch p.Phase {
					case PhaseChecking:
						fmt.Fprintln(out, "Checking for update...")
					case PhaseDownloading:
						if lastPhase != PhaseDownloading {
							fmt.Fprintln(out, "Downloading...")
						}
					case PhaseCompiling:
						fmt.Fprintln(out, "Compiling...")
					case PhaseUpToDate:
						fmt.Fprintln(out, "Already up to date")
					}
					lastPhase = p.Phase
				}))
			}

			result, err := (*syncer).Synchronize(ctx, opts...)
			if err != nil {
				return err
			}

			return outputSyncResult(out, result, *jsonOutput, *quiet)
		},
	}

	cmd.Flags().BoolVar(&recompile, "recompile", false, "Recompile even if a compiled cache exists")
	return cmd
}

func checkCmd(syncer *Synchronizer, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare local and remote digests",
		Long:  "Report whether the local artifact matches the latest remote digest, without downloading.",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := (*syncer).CheckUpdate(cmd.Context())
			if err != nil {
				return err
			}
			return outputUpdateStatus(cmd.OutOrStdout(), status, *jsonOutput)
		},
	}
}

func digestCmd(syncer *Synchronizer) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print the local artifact digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := (*syncer).LocalDigest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
}

func pathCmd(syncer *Synchronizer) *cobra.Command {
	var compiled bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the artifact path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if compiled {
				fmt.Fprintln(cmd.OutOrStdout(), (*syncer).CompiledPath())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), (*syncer).ArtifactPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&compiled, "compiled", false, "Print the compiled cache path instead")
	return cmd
}

func pruneCmd(syncer *Synchronizer, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove the compiled-artifact cache",
		Long:  "Delete the compiled cache so the next sync recompiles from the raw artifact.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*syncer).InvalidateCompiled(); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Compiled cache removed")
			}
			return nil
		},
	}
}

// outputSyncResult writes a sync result in table or JSON form.
func outputSyncResult(w io.Writer, result SyncResult, jsonOutput, quiet bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Updated      bool   `json:"updated"`
			Compiled     bool   `json:"compiled"`
			Digest       string `json:"digest"`
			ArtifactPath string `json:"artifact_path"`
			CompiledPath string `json:"compiled_path"`
		}{result.Updated, result.Compiled, result.Digest, result.ArtifactPath, result.CompiledPath})
	}

	if quiet {
		return nil
	}

	if result.Updated {
		fmt.Fprintf(w, "Updated %s (digest %s)\n", result.ArtifactPath, result.Digest)
	} else {
		fmt.Fprintf(w, "Unchanged %s (digest %s)\n", result.ArtifactPath, result.Digest)
	}
	return nil
}

// outputUpdateStatus writes an update-check report in table or JSON form.
func outputUpdateStatus(w io.Writer, status UpdateStatus, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	switch {
	case status.ArtifactMissing:
		fmt.Fprintf(w, "No local artifact; remote digest is %s\n", status.RemoteDigest)
	case status.Current:
		fmt.Fprintf(w, "Up to date (digest %s)\n", status.LocalDigest)
	default:
		fmt.Fprintf(w, "Update available: local %s, remote %s\n", status.LocalDigest, status.RemoteDigest)
	}
	return nil
}
