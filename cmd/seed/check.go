package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/talentflow/internal/seeder"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the dashboard stats",
	RunE:  runCheck,
}

var checkMinCandidates int

func init() {
	checkCmd.Flags().IntVar(&checkMinCandidates, "min-candidates", 0, "Fail unless at least this many candidates exist")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	client := seeder.NewClient(baseURL, timeout)
	stats, err := client.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return err
	}
	if stats.TotalCandidates < checkMinCandidates {
		return fmt.Errorf("expected at least %d candidates, found %d", checkMinCandidates, stats.TotalCandidates)
	}
	return nil
}
