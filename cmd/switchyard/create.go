package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/switchyard/internal/cli"
	"github.com/aretw0/switchyard/internal/presentation/tui"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <neoforge|forge|fabric>",
	Short: "Create a new mod project",
	Long: `Runs the project wizard for the given loader and generates the project.

Without a terminal, pass --answers with a YAML file of field values:

  project_name: Example Mod
  minecraft_version: 1.21.1
  init_git: false`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := domain.ParseProjectKind(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("unknown project kind %q (expected one of %s)", args[0], strings.Join(kindNames(), ", "))
		}
		answers, _ := cmd.Flags().GetString("answers")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		interactive := tui.Interactive(os.Stdin)
		tui.ConfigureColors(interactive)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		rec, err := app.Create(sigCtx, cli.CreateOptions{
			Kind:        kind,
			AnswersPath: answers,
			In:          os.Stdin,
			Out:         cmd.OutOrStdout(),
			Interactive: interactive,
		})
		cli.PrintSummary(cmd.OutOrStdout(), rec)
		if sig := sigCtx.Signal(); sig != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nInterrupted (%v).\n", sig)
		}
		return cli.HandleExecutionError(err)
	},
}

func kindNames() []string {
	names := make([]string, 0, len(domain.ProjectKinds))
	for _, k := range domain.ProjectKinds {
		names = append(names, string(k))
	}
	return names
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("answers", "a", "", "YAML file with wizard answers (runs without prompts)")
}
