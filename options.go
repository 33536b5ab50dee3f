package main

import (
	"github.com/spf13/cobra"
)

// CommandLineOptions contains all command line options
type CommandLineOptions struct {
	ConfigDir    string
	ConfigName   string
	SnapshotPath string
	DryRun       bool
}

func (o *CommandLineOptions) bindConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ConfigDir, "config-dir", "/etc/smoothtask", "Directory searched for the configuration file")
	cmd.Flags().StringVar(&o.ConfigName, "config-name", "smoothtask_config", "Configuration file name without extension")
}
