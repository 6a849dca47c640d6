package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"balanceScope/internal/api"
)

func runBalance(cmd *cobra.Command, _ []string) error {
	address, _ := cmd.Flags().GetString("address")
	baseURL, _ := cmd.Flags().GetString("base-url")

	if address == "" {
		return fmt.Errorf("address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(baseURL)
	balance, ok, err := client.Balance(ctx, address)
	if err != nil {
		return fmt.Errorf("query balance: %w", err)
	}
	if !ok {
		return fmt.Errorf("no balance in response for %s", address)
	}

	fmt.Println(balance.String())
	return nil
}
