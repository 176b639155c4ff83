package main

import (
	"fmt"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <minecraft-version>",
	Short: "Show which supported Minecraft version a request maps to",
	Long: `Resolves a Minecraft version the way project creation does: releases map to
themselves and snapshots to the closest release by date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		releaseTime, _ := cmd.Flags().GetString("release-time")

		requested := domain.VersionDescriptor{ID: args[0], Kind: domain.KindRelease}
		if typ != "" {
			kind, ok := domain.ParseVersionKind(typ)
			if !ok {
				return fmt.Errorf("invalid type %q", typ)
			}
			requested.Kind = kind
		}
		if releaseTime != "" {
			t, err := time.Parse(time.RFC3339, releaseTime)
			if err != nil {
				return fmt.Errorf("invalid release time: %w", err)
			}
			requested.ReleaseTime = t
		}

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		resolved, err := app.Resolver.Resolve(cmd.Context(), requested)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n",
			requested.ID, resolved.ID, resolved.Kind, resolved.ReleaseTime.Format(time.DateOnly))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("type", "", "Version type: release, snapshot, old_beta or old_alpha (looked up when omitted)")
	resolveCmd.Flags().String("release-time", "", "Release time in RFC 3339, for versions the catalog does not list")
}
