package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

var (
	validateFileType string
	validateFormat   string
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Run the validation pipeline over content",
	Long: `Score content with the syntax, realism, and security validators and
print the per-validator report. Reads FILE, or stdin when no file is
given. The file type is inferred from the extension unless --file-type
is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFileType, "file-type", "", "File type for syntax dispatch (python, javascript, shell, go, yaml, json, nginx, generic)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "human", "Output format: human, json")
}

// extFileTypes maps common extensions to syntax dispatch types.
var extFileTypes = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".sh":   "shell",
	".go":   "go",
	".yml":  "yaml",
	".yaml": "yaml",
	".json": "json",
	".conf": "nginx",
}

func runValidate(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error
	fileType := validateFileType

	if len(args) == 1 {
		content, err = os.ReadFile(args[0])
		if fileType == "" {
			if t, ok := extFileTypes[strings.ToLower(filepath.Ext(args[0]))]; ok {
				fileType = t
			}
		}
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	if fileType == "" {
		fileType = "generic"
	}

	suite, err := validator.NewSuite()
	if err != nil {
		return fmt.Errorf("initializing validators: %w", err)
	}
	results := suite.Run(string(content), validator.Context{FileType: fileType})
	gc := &types.GeneratedContent{ValidationResults: results}

	switch validateFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"valid":         gc.IsValid(),
			"overall_score": gc.OverallScore(),
			"results":       results,
		})
	case "human":
		return printValidationReport(cmd, fileType, gc)
	default:
		return fmt.Errorf("unknown output format: %s", validateFormat)
	}
}

func printValidationReport(cmd *cobra.Command, fileType string, gc *types.GeneratedContent) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file_type: %s\n", fileType)
	fmt.Fprintf(out, "valid: %t  overall_score: %.2f\n\n", gc.IsValid(), gc.OverallScore())

	for _, name := range []string{types.ValidatorSyntax, types.ValidatorRealism, types.ValidatorSecurity} {
		r, ok := gc.ValidationResults[name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s: valid=%t score=%.2f\n", name, r.Valid, r.Score)
		for _, e := range r.Errors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}
	return nil
}
