package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <loader> <minecraft-version>",
	Short: "List upstream versions published for a Minecraft version",
	Long:  `Lists neoforge, forge, fabric_loader, fabric_api, parchment or yarn versions, newest first.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		catalogs := app.LoaderCatalogs()
		catalog, ok := catalogs[args[0]]
		if !ok {
			names := slices.Sorted(maps.Keys(catalogs))
			return fmt.Errorf("unknown loader %q (expected one of %s)", args[0], strings.Join(names, ", "))
		}
		versions, err := catalog.VersionsFor(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(versions) > limit {
			versions = versions[:limit]
		}
		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().IntP("limit", "n", 20, "Show at most n versions (0 for all)")
}
