package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/decoyhive/decoyhive/pkg/generate"
	"github.com/decoyhive/decoyhive/pkg/llm"
	"github.com/decoyhive/decoyhive/pkg/populate"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

var (
	populateProfile    string
	populateHoneypotID string
	populateOutput     string
	llmProvider        string
	llmBaseURL         string
	llmModel           string
	llmTimeout         time.Duration
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Populate a honeypot with a decoy file profile",
	Long: `Generate a coherent multi-file decoy profile, embed and persist its
honeytokens, reconcile identity fields across the batch, and deploy it
under the output directory.

Requires a reachable LLM backend. The API key is read from the
OPENAI_API_KEY environment variable for the openai provider.`,
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().StringVar(&populateProfile, "profile", populate.ProfileDeveloperWorkstation,
		"Profile: developer_workstation, production_server, database_server, web_server")
	populateCmd.Flags().StringVar(&populateHoneypotID, "honeypot-id", "", "Honeypot identifier (required)")
	populateCmd.Flags().StringVar(&populateOutput, "output", "./honeypots", "Base directory for deployed files")
	populateCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider: openai, ollama")
	populateCmd.Flags().StringVar(&llmBaseURL, "llm-url", "", "LLM endpoint override")
	populateCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	populateCmd.Flags().DurationVar(&llmTimeout, "llm-timeout", 60*time.Second, "Per-request LLM timeout")
	populateCmd.MarkFlagRequired("honeypot-id")
}

func runPopulate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	client, err := llm.New(llm.Config{
		Provider: llmProvider,
		BaseURL:  llmBaseURL,
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:    llmModel,
		Timeout:  llmTimeout,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("initializing LLM client: %w", err)
	}
	defer client.Close()

	suite, err := validator.NewSuite()
	if err != nil {
		return fmt.Errorf("initializing validators: %w", err)
	}

	gen, err := generate.New(generate.Config{
		LLM:        client,
		Validators: suite,
		Store:      st,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	deployer, err := populate.NewDeployer(populateOutput, logger)
	if err != nil {
		return fmt.Errorf("initializing deployer: %w", err)
	}

	strategy, err := populate.NewStrategy(populate.StrategyConfig{
		Generator: gen,
		Tokens:    token.NewGenerator(suite),
		Store:     st,
		Deployer:  deployer,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	res, err := strategy.Populate(cmd.Context(), populateHoneypotID, populateProfile)
	if err != nil {
		return fmt.Errorf("populating %s: %w", populateHoneypotID, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "honeypot: %s\n", res.HoneypotPath)
	fmt.Fprintf(out, "files created: %d\n", res.FilesCreated)
	fmt.Fprintf(out, "tokens issued: %d\n", res.TokensIssued)
	for _, e := range res.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
	}
	if !res.Success {
		return fmt.Errorf("population completed with %d errors", len(res.Errors))
	}
	return nil
}
