package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/feanorMV/qrpatch/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch <file-or-dir>...",
	Short: "Extract markers from many documents concurrently",
	Long: `Scan multiple files or directories for QR markers. Failures in one
file never abort the others; each file reports its own result.

Examples:
  qrpatch batch ./invoices
  qrpatch batch ./archive --recursive --workers 8
  qrpatch batch a.pdf b.png --format json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no inputs provided")
		}

		cfg := GetConfig()
		bcfg := batch.Config{
			Workers:   cfg.Batch.Workers,
			Recursive: cfg.Batch.Recursive,
		}
		if cmd.Flags().Changed("workers") {
			bcfg.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("recursive") {
			bcfg.Recursive, _ = cmd.Flags().GetBool("recursive")
		}
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		pl, err := buildPipeline(cfg)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		result, err := batch.Process(cmd.Context(), pl, args, bcfg)
		if err != nil {
			return err
		}

		if err := writeBatchResult(cmd.OutOrStdout(), format, result); err != nil {
			return err
		}
		if result.Failed() > 0 {
			return fmt.Errorf("%d of %d files failed", result.Failed(), len(result.Files))
		}
		return nil
	},
}

func writeBatchResult(w io.Writer, format string, r *batch.Result) error {
	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case outputFormatText, "":
		for _, f := range r.Files {
			if f.Failed() {
				fmt.Fprintf(w, "%s: FAILED: %s\n", f.Path, f.Err)
				continue
			}
			fmt.Fprintf(w, "%s: %d markers\n", f.Path, len(f.Session.Markers))
		}
		fmt.Fprintf(w, "%d succeeded, %d failed in %s\n", r.Succeeded(), r.Failed(), r.Duration)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "concurrent workers (0 = number of CPUs)")
	batchCmd.Flags().BoolP("recursive", "R", false, "recurse into directories")
	batchCmd.Flags().StringP("format", "f", outputFormatText, "output format (json, text)")
}
