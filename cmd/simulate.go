package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecotrack/binsight/infra/logger"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Seed the configured store with a synthetic bin fleet",
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate-command").Errorf("service close: %v", err)
		}
	}()
	return svc.Seed(ctx)
}
