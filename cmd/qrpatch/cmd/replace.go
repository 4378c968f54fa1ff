package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feanorMV/qrpatch/internal/pipeline"
	"github.com/feanorMV/qrpatch/internal/style"
)

// replaceCmd represents the replace command.
var replaceCmd = &cobra.Command{
	Use:   "replace <file>",
	Short: "Replace QR markers in a document with new payloads",
	Long: `Re-encode QR markers at given positions with new payloads and write
the patched document in the input's format.

The replacements file is a JSON array of records:
  [{"page": 1, "rect": {"x": 50, "y": 50, "width": 120, "height": 120},
    "payload": "https://new.example/target"}]

Marker appearance (colors, size) comes from an optional settings file
in the same JSON shape the extract UI exports.

Examples:
  qrpatch replace document.pdf --replacements reps.json
  qrpatch replace scan.png --replacements reps.json -o patched.png
  qrpatch replace document.pdf --replacements reps.json --settings style.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		repsFile, _ := cmd.Flags().GetString("replacements")
		if repsFile == "" {
			return fmt.Errorf("no replacements file provided")
		}
		repsData, err := os.ReadFile(repsFile)
		if err != nil {
			return fmt.Errorf("reading replacements: %w", err)
		}
		var reps []pipeline.Replacement
		if err := json.Unmarshal(repsData, &reps); err != nil {
			return fmt.Errorf("parsing replacements: %w", err)
		}

		st := cfg.Style
		if settingsFile, _ := cmd.Flags().GetString("settings"); settingsFile != "" {
			data, err := os.ReadFile(settingsFile)
			if err != nil {
				return fmt.Errorf("reading settings: %w", err)
			}
			st, err = style.Import(data)
			if err != nil {
				return fmt.Errorf("parsing settings: %w", err)
			}
		}

		input := args[0]
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}

		pl, err := buildPipeline(cfg)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		out, err := pl.Replace(cmd.Context(), input, data, reps, st)
		if err != nil {
			return fmt.Errorf("replacing markers in %s: %w", input, err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			outputFile = patchedName(input)
		}
		if err := os.WriteFile(outputFile, out, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d replacements)\n", outputFile, len(reps))
		return nil
	},
}

// patchedName derives a default output path next to the input.
func patchedName(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".patched" + ext
}

func init() {
	rootCmd.AddCommand(replaceCmd)

	replaceCmd.Flags().StringP("replacements", "r", "", "JSON file with replacement records (required)")
	replaceCmd.Flags().StringP("settings", "s", "", "JSON file with marker appearance settings")
	replaceCmd.Flags().StringP("output", "o", "", "output file (default: <input>.patched.<ext>)")
	_ = replaceCmd.MarkFlagRequired("replacements")
}
