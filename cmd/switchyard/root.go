package main

import (
	"fmt"
	"os"

	"github.com/aretw0/switchyard/internal/cli"
	"github.com/aretw0/switchyard/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "switchyard",
	Short: "Switchyard scaffolds Minecraft mod projects",
	Long: `Switchyard asks a few questions about a new mod, then downloads the
NeoForge, Forge or Fabric template that matches the chosen Minecraft version
and rewrites it into a ready to build Gradle project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}

// loadApp reads the configuration named by the persistent flags and wires the app.
// Callers must Close it.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cfg, debug)
}
