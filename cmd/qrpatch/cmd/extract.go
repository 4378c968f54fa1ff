package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feanorMV/qrpatch/internal/pipeline"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Find QR markers in PDF or image documents",
	Long: `Scan one or more documents for QR codes and report each marker's
payload, page and position in the document's native units.

Supported inputs: PDF, PNG, JPEG

Examples:
  qrpatch extract document.pdf
  qrpatch extract scan.png --format json
  qrpatch extract document.pdf --output markers.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		pl, err := buildPipeline(cfg)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		out := cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			session, err := pl.Extract(cmd.Context(), path, data)
			if err != nil {
				return fmt.Errorf("extracting from %s: %w", path, err)
			}

			if err := writeSession(out, format, session); err != nil {
				return err
			}
		}
		return nil
	},
}

// writeSession renders one extraction result in the requested format.
func writeSession(w io.Writer, format string, s *pipeline.Session) error {
	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case outputFormatText, "":
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s, %d pages): %d markers\n",
			s.Filename, s.Format, s.TotalPages, len(s.Markers))
		for _, m := range s.Markers {
			fmt.Fprintf(&b, "  %s page=%d rect=(%.1f,%.1f %.1fx%.1f) payload=%q\n",
				m.ID, m.Page, m.Rect.X, m.Rect.Y, m.Rect.W, m.Rect.H, m.Payload)
		}
		for _, pf := range s.PartialPages {
			fmt.Fprintf(&b, "  page %d failed: %s\n", pf.Page, pf.Err)
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("format", "f", outputFormatText, "output format (json, text)")
	extractCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
}
