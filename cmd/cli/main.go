package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "contabil-cli",
		Short:         "Contabil CLI tool",
		Long:          `A command line interface for the Contabil bookkeeping API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the Contabil API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("CONTABIL_TOKEN"), "Bearer token (defaults to $CONTABIL_TOKEN)")

	rootCmd.AddCommand(
		ledgerCmd(client),
		balanceteCmd(client),
		exportCmd(client),
		chartCmd(client),
		tokenCmd(),
	)

	return rootCmd
}
