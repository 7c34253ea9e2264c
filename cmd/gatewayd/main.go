package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:   "gatewayd",
		Short: "Runs the gateway described by a config file",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "gateway.yaml", "path to the gateway config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")

	root.AddCommand(newValidateCmd(&configPath))
	root.AddCommand(newRunCmd(&configPath, &debug))
	return root
}
