package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Gthulhu/smoothtask/app"
	"github.com/Gthulhu/smoothtask/collector"
	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/Gthulhu/smoothtask/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	logger.InitLogger()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "smoothtask",
		Short:        "Reclassifies application groups into priority tiers and applies them to the OS",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newClassesCmd(), newPlanCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &CommandLineOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduling daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if opts.DryRun {
				cfg.Daemon.DryRun = true
			}
			fxApp, err := app.NewDaemonApp(cfg)
			if err != nil {
				return err
			}
			fxApp.Run()
			return nil
		},
	}
	opts.bindConfigFlags(cmd)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Plan adjustments without applying them")
	return cmd
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print the priority class table",
		RunE: func(cmd *cobra.Command, args []string) error {
			type classRow struct {
				Name   string                `json:"name"`
				Params domain.PriorityParams `json:"params"`
			}
			rows := make([]classRow, 0, len(domain.AllClasses()))
			for _, class := range domain.AllClasses() {
				rows = append(rows, classRow{Name: class.String(), Params: class.Params()})
			}
			return printJSON(cmd, rows)
		},
	}
}

func newPlanCmd() *cobra.Command {
	opts := &CommandLineOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Evaluate a snapshot file and print decisions and planned adjustments without touching the OS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			cfg.Logging.Level = "warn"
			if _, err := logger.InitLoggerWithConfig(cfg.Logging); err != nil {
				return err
			}
			cfg.Daemon.DryRun = true
			cfg.Daemon.SkipUnchanged = false
			cfg.Actuator.ReadCurrent = false

			svc, err := service.NewService(service.Params{
				Config:     cfg,
				Source:     collector.FileSource{Path: opts.SnapshotPath},
				Registerer: prometheus.NewRegistry(),
			})
			if err != nil {
				return err
			}
			report, err := svc.RunCycle(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	opts.bindConfigFlags(cmd)
	cmd.Flags().StringVar(&opts.SnapshotPath, "snapshot", "", "JSON snapshot to evaluate")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func loadConfig(opts *CommandLineOptions) (config.SmoothTaskConfig, error) {
	cfg, err := config.InitConfig(opts.ConfigName, opts.ConfigDir)
	if err != nil {
		return cfg, fmt.Errorf("load config %s from %s: %w", opts.ConfigName, opts.ConfigDir, err)
	}
	if _, err := logger.InitLoggerWithConfig(cfg.Logging); err != nil {
		return cfg, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
