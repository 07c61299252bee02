package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateIndexCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-index <label> <property>",
		Short: "create a back-end index over property for vertices carrying label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, closeGraph, err := openGraph(opts)
			if err != nil {
				return err
			}
			defer closeGraph()

			if err := g.CreateIndex(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index created on :%s(%s)\n", args[0], args[1])
			return nil
		},
	}
}
