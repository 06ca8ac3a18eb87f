package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiseasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diseases",
		Short: "Print every disease label found in the datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range engine.Diseases() {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}
