package main

import (
	"github.com/spf13/cobra"

	"github.com/investicat/etl/pkg/logger"
)

var clearConfirm bool

func init() {
	clearCmd.Flags().BoolVar(&clearConfirm, "confirm", false, "actually delete all data")
	rootCmd.AddCommand(statsCmd, clearCmd, constraintsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node and relationship counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage := newStorage()
		if err := storage.Connect(ctx); err != nil {
			return err
		}
		defer storage.Close(ctx)

		stats, err := storage.GetStats(ctx)
		if err != nil {
			return err
		}

		return writeJSON("", stats)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all nodes and relationships",
	Long: `Delete every node and relationship from the database. Refuses to run
without --confirm.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage := newStorage()
		if err := storage.Connect(ctx); err != nil {
			return err
		}
		defer storage.Close(ctx)

		if err := storage.ClearDatabase(ctx, clearConfirm); err != nil {
			return err
		}

		logger.Info("database cleared")
		return nil
	},
}

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "Ensure uniqueness constraints exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage := newStorage()
		if err := storage.Connect(ctx); err != nil {
			return err
		}
		defer storage.Close(ctx)

		return storage.CreateConstraints(ctx)
	},
}
