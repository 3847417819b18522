package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/talentflow/internal/seeder"
)

const suffixLen = 8

var seedCmd = &cobra.Command{
	Use:   "run",
	Short: "Post demo candidates and interviews",
	Long:  "Posts the five named demo candidates plus generated ones, then schedules interviews for the candidates that were created.",
	RunE:  runSeed,
}

var (
	seedGenerated  int
	seedInterviews int
	seedWorkers    int
	seedUnique     bool
)

func init() {
	seedCmd.Flags().IntVarP(&seedGenerated, "generated", "n", 10, "Number of generated candidates")
	seedCmd.Flags().IntVarP(&seedInterviews, "interviews", "i", 5, "Number of generated interviews")
	seedCmd.Flags().IntVarP(&seedWorkers, "workers", "w", runtime.NumCPU(), "Concurrent requests")
	seedCmd.Flags().BoolVar(&seedUnique, "unique", false, "Give generated emails a random suffix so repeated runs add new candidates")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := seeder.NewClient(baseURL, timeout)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("server at %s: %w", baseURL, err)
	}

	cfg := seeder.Config{
		Generated:  seedGenerated,
		Interviews: seedInterviews,
		Workers:    seedWorkers,
	}
	if seedUnique {
		cfg.EmailSuffix = uuid.NewString()[:suffixLen]
	}

	stats, err := seeder.Seed(ctx, client, cfg)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
