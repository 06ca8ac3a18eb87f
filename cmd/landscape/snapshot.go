package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelkehle/drug-landscape/internal/records"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load the CSV datasets and write them to a SQLite snapshot",
		Long: `snapshot always reads the configured CSV sources, ignoring data.snapshot,
and writes all five datasets to the output file. Point data.snapshot at the
result to start later runs from it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.loadSources(ctx)
			if err != nil {
				return err
			}
			if err := records.SaveSnapshot(ctx, output, store); err != nil {
				return err
			}
			a.log.Info("snapshot written", "path", output, "counts", store.Counts())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
