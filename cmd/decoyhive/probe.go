package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/decoyhive/decoyhive/pkg/probe"
)

var probeAWSCmd = &cobra.Command{
	Use:   "probe-aws ACCESS_KEY_ID SECRET_ACCESS_KEY",
	Short: "Verify an AWS honeytoken pair is inert",
	Long: `Call STS GetCallerIdentity with the honeytoken credential pair.
Rejection by AWS is the passing outcome: it confirms the decoy does
not collide with a real identity. Acceptance is reported as an error.`,
	Args: cobra.ExactArgs(2),
	RunE: runProbeAWS,
}

func runProbeAWS(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	p := probe.NewAWS(logger)

	res, err := p.Probe(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("probing credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	switch res.Status {
	case probe.StatusInert:
		okStyle.Fprintln(out, "inert: credentials rejected by AWS")
		return nil
	case probe.StatusLive:
		alertHeading.Fprintln(out, "LIVE CREDENTIALS")
		fmt.Fprintln(out, res.Message)
		return fmt.Errorf("honeytoken collides with live AWS credentials")
	default:
		fmt.Fprintf(out, "undetermined: %s\n", res.Message)
		return nil
	}
}
