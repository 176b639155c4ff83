package main

import (
	"fmt"

	"github.com/aretw0/switchyard/internal/cli"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "p"},
	Short:   "Manage recorded projects",
}

var projectsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List recorded projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		records, err := app.LoadRecords(cmd.Context())
		if err != nil {
			return err
		}
		return cli.PrintRecords(cmd.OutOrStdout(), records, format)
	},
}

var projectsInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show a recorded project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := app.Sessions.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cli.PrintRecord(cmd.OutOrStdout(), rec, format)
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Forget a recorded project. Its files are kept.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Sessions.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsInspectCmd, projectsRemoveCmd)
	projectsCmd.PersistentFlags().StringP("output", "o", cli.FormatText, "Output format: text, json or yaml")
}
