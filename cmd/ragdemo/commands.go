package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ragpipe"
)

// Canned demo scenarios, one per workflow.
var scenarios = map[string]string{
	"kyc":     "Please onboard this client and review the KYC document",
	"risk":    "What is the risk level of James Anderson?",
	"summary": "Summarize the risk assessment process for high-net-worth clients",
}

func newQueryCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one query through the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], period)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "current quarter for the recency bonus, e.g. 2024-Q3")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "scenario <kyc|risk|summary>",
		Short:     "Run a canned demo scenario",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"kyc", "risk", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query, ok := scenarios[args[0]]
			if !ok {
				return fmt.Errorf("unknown scenario %q", args[0])
			}
			return runQuery(cmd, query, "2024-Q3")
		},
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := ragpipe.New()
			if err != nil {
				return err
			}
			for _, schema := range client.Tools() {
				color.New(color.FgCyan, color.Bold).Fprintln(cmd.OutOrStdout(), schema.Name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", schema.Description)
			}
			return nil
		},
	}
}

func runQuery(cmd *cobra.Command, query, period string) error {
	opts := []ragpipe.Option{}
	if period != "" {
		opts = append(opts, ragpipe.WithCurrentPeriod(period))
	}

	client, err := ragpipe.New(opts...)
	if err != nil {
		return err
	}

	result, err := client.Query(cmd.Context(), query)
	if err != nil {
		return err
	}

	render(cmd.OutOrStdout(), result)
	return nil
}
