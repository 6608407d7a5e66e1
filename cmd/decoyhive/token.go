package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

var (
	tokenType       string
	tokenFormatHint string
	tokenHoneypotID string
	tokenFilePath   string
	tokenPersist    bool
	listHoneypotID  string
	listType        string
	listAll         bool
	listLimit       int
	listFormat      string
)

// alert styles for detection output
var (
	alertHeading = color.New(color.Bold, color.FgHiRed)
	alertField   = color.New(color.FgYellow)
	okStyle      = color.New(color.FgHiGreen)
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage honeytokens",
	Long:  "Commands for generating, checking, listing, and deactivating honeytokens",
}

var tokenGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a honeytoken value",
	Long: `Synthesize a decoy secret value for the given token type and
optionally persist it for later detection. Values that are not
persisted cannot be detected when accessed.`,
	RunE: runTokenGen,
}

var tokenCheckCmd = &cobra.Command{
	Use:   "check VALUE",
	Short: "Check whether a value is an issued honeytoken",
	Long: `Look a value up against the active honeytoken records. A hit is a
detection event: it is recorded (access count, last access time) and
reported loudly.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenCheck,
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued honeytokens",
	RunE:  runTokenList,
}

var tokenDeactivateCmd = &cobra.Command{
	Use:   "deactivate TOKEN_ID",
	Short: "Deactivate a honeytoken",
	Long:  "Remove a honeytoken from detection matching. Deactivation is irreversible.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenDeactivate,
}

var tokenMaskCmd = &cobra.Command{
	Use:   "mask [FILE]",
	Short: "Mask secret-shaped values in content",
	Long: `Replace every span matching a secret signature with asterisks and
print the result. Reads FILE, or stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenMask,
}

func init() {
	tokenCmd.AddCommand(tokenGenCmd)
	tokenCmd.AddCommand(tokenCheckCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenDeactivateCmd)
	tokenCmd.AddCommand(tokenMaskCmd)

	tokenGenCmd.Flags().StringVar(&tokenType, "type", "api_token", "Token type (aws_access_key, github_token, ssn, ...)")
	tokenGenCmd.Flags().StringVar(&tokenFormatHint, "format-hint", "", "Layout hint for structured token types")
	tokenGenCmd.Flags().StringVar(&tokenHoneypotID, "honeypot-id", "", "Honeypot to associate the token with")
	tokenGenCmd.Flags().StringVar(&tokenFilePath, "file-path", "", "Path hint of where the token will be embedded")
	tokenGenCmd.Flags().BoolVar(&tokenPersist, "persist", true, "Record the token for later detection")

	tokenListCmd.Flags().StringVar(&listHoneypotID, "honeypot-id", "", "Filter by honeypot id")
	tokenListCmd.Flags().StringVar(&listType, "type", "", "Filter by token type")
	tokenListCmd.Flags().BoolVar(&listAll, "all", false, "Include deactivated tokens")
	tokenListCmd.Flags().IntVar(&listLimit, "limit", 100, "Maximum records to return")
	tokenListCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json")
}

func runTokenGen(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	suite, err := validator.NewSuite()
	if err != nil {
		return fmt.Errorf("initializing validators: %w", err)
	}
	gen := token.NewGenerator(suite)
	gc := gen.Generate(token.Params{TokenType: tokenType, FormatHint: tokenFormatHint})

	out := cmd.OutOrStdout()
	if !tokenPersist {
		fmt.Fprintln(out, gc.Content)
		return nil
	}

	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	rec, err := st.CreateToken(cmd.Context(), store.CreateTokenParams{
		TokenType:  tokenType,
		TokenValue: gc.Content,
		HoneypotID: tokenHoneypotID,
		FilePath:   tokenFilePath,
		Metadata:   gc.Metadata,
	})
	if err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}

	fmt.Fprintln(out, rec.TokenValue)
	fmt.Fprintf(cmd.ErrOrStderr(), "token_id: %s\n", rec.TokenID)
	return nil
}

func runTokenCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	rec, err := st.CheckToken(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		okStyle.Fprintln(out, "not a known honeytoken")
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking token: %w", err)
	}

	alertHeading.Fprintln(out, "HONEYTOKEN ACCESS DETECTED")
	alertField.Fprintf(out, "  token_id:     %s\n", rec.TokenID)
	alertField.Fprintf(out, "  token_type:   %s\n", rec.TokenType)
	if rec.HoneypotID != "" {
		alertField.Fprintf(out, "  honeypot_id:  %s\n", rec.HoneypotID)
	}
	if rec.FilePath != "" {
		alertField.Fprintf(out, "  file_path:    %s\n", rec.FilePath)
	}
	alertField.Fprintf(out, "  access_count: %d\n", rec.AccessCount)
	if rec.AccessedAt != nil {
		alertField.Fprintf(out, "  accessed_at:  %s\n", rec.AccessedAt.Format(time.RFC3339))
	}
	return nil
}

func runTokenList(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	tokens, err := st.ListTokens(cmd.Context(), store.ListFilter{
		HoneypotID:      listHoneypotID,
		TokenType:       listType,
		IncludeInactive: listAll,
		Limit:           listLimit,
	})
	if err != nil {
		return fmt.Errorf("listing tokens: %w", err)
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(tokens)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "ID\tType\tHoneypot\tAccesses\tActive\tCreated\n")
		fmt.Fprintf(w, "--\t----\t--------\t--------\t------\t-------\n")
		for _, t := range tokens {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n",
				t.TokenID, t.TokenType, t.HoneypotID, t.AccessCount,
				t.IsActive, t.CreatedAt.Format(time.RFC3339))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", listFormat)
	}
}

func runTokenDeactivate(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	found, err := st.DeactivateToken(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("deactivating token: %w", err)
	}
	if !found {
		return fmt.Errorf("token not found: %s", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", args[0])
	return nil
}

func runTokenMask(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error
	if len(args) == 1 {
		content, err = os.ReadFile(args[0])
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}

	sec, err := validator.NewSecurity()
	if err != nil {
		return fmt.Errorf("initializing security validator: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), sec.Mask(string(content)))
	return nil
}
