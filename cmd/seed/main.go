// Package main implements the seed CLI that loads demo data into a running server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/talentflow/pkg/logger"
)

const (
	defaultURL     = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
)

var (
	baseURL string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Demo data tool for the TalentFlow API",
	Long:  "Populates a running TalentFlow server with demo candidates and interviews, and checks the resulting dashboard stats.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return logger.InitWith(os.Stderr, "text")
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&baseURL, "url", "u", envOr("TALENTFLOW_URL", defaultURL), "Base URL of the server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP request timeout")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
