package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/switchyard/internal/presentation/graph"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <neoforge|forge|fabric>",
	Short: "Export the wizard flow of a project kind",
	Long:  `Outputs a Mermaid diagram (graph TD) of the wizard steps and their conditional transitions.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := domain.ParseProjectKind(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("unknown project kind %q", args[0])
		}
		format, _ := cmd.Flags().GetString("format")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		g, err := app.Onboarding.Flow(kind)
		if err != nil {
			return err
		}
		switch format {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(graph.Describe(kind, g))
		default:
			return fmt.Errorf("unknown format %q (expected mermaid or json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or json")
}
