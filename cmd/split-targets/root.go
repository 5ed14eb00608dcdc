package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/r00tm4st3r/Split-Targets/internal/app"
	"github.com/r00tm4st3r/Split-Targets/internal/config"
	"github.com/r00tm4st3r/Split-Targets/internal/domain"
	"github.com/r00tm4st3r/Split-Targets/internal/split"
)

// Overridden at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split-targets -i <file> [flags]",
		Short: "Split and clean a large URL/IP target list into smaller chunk files with deduplication.",
		Long: "Reads a list of URLs, hostnames and IPs, drops private addresses and excluded prefixes,\n" +
			"removes duplicate lines and writes the rest to <input>-<index>.txt chunk files.",
		Version:       Version + " (commit " + Commit + ")",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			log.SetFlags(log.LstdFlags)
			if cfg.Verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}

			return app.Run(cmd.Context(), cfg, app.Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringP("input", "i", "", "Path to input .txt file")
	fs.IntP("start", "s", split.DefaultStartIndex, "Start index for output files")
	fs.IntP("lines", "n", split.DefaultLinesPerFile, "Lines per file")
	fs.StringP("exclude", "x", "", "Comma-separated IP prefixes to exclude (e.g. 23,104,173)")
	fs.Bool("dry-run", false, "Show how many lines/files would be created without writing output")
	fs.StringP("output-dir", "o", "", "Directory for chunk files (default: current directory)")
	fs.Bool("per-chunk-dedup", false, "Only deduplicate within each chunk file, not across chunks")
	fs.StringP("dest", "d", "", "Relocate chunk files to this directory without asking")
	fs.StringP("mode", "m", "", "Relocation mode without asking: copy or move")
	fs.StringP("config", "c", "", "YAML config file (env SPLIT_TARGETS_CONFIG)")
	fs.Bool("no-color", false, "Disable colour output")
	fs.Bool("progress", false, "Show a progress bar while reading the input")
	fs.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// loadConfig layers explicitly set flags over config.Load.
func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	path, _ := fs.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	cfg.Input, _ = fs.GetString("input")

	if fs.Changed("start") {
		cfg.StartIndex, _ = fs.GetInt("start")
	}
	if fs.Changed("lines") {
		cfg.LinesPerFile, _ = fs.GetInt("lines")
	}
	if v, _ := fs.GetString("exclude"); v != "" {
		cfg.Exclude = domain.ParsePrefixes(v)
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir, _ = fs.GetString("output-dir")
	}
	if v, _ := fs.GetBool("per-chunk-dedup"); v {
		cfg.CrossChunk = false
	}
	if fs.Changed("dest") {
		cfg.Dest, _ = fs.GetString("dest")
	}
	if fs.Changed("mode") {
		cfg.Mode, _ = fs.GetString("mode")
	}
	for name, dst := range map[string]*bool{
		"dry-run":  &cfg.DryRun,
		"no-color": &cfg.NoColor,
		"progress": &cfg.Progress,
		"verbose":  &cfg.Verbose,
	} {
		if v, _ := fs.GetBool(name); v {
			*dst = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
