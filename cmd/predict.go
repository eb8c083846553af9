package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecotrack/binsight/infra/logger"
)

var predictCmd = &cobra.Command{
	Use:   "predict <bin-id>",
	Short: "Predict time-to-full for one bin and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("predict-command").Errorf("service close: %v", err)
		}
	}()

	if cfg.Simulator.Enabled {
		if err := svc.Seed(ctx); err != nil {
			return err
		}
	}

	pred, err := svc.Core.PredictOne(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pred)
}
