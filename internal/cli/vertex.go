package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphvalue"
	"github.com/roach88/graphsession/internal/session"
)

func newVertexCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vertex",
		Short: "manage vertices",
	}
	cmd.AddCommand(newVertexAddCommand(opts))
	return cmd
}

func newVertexAddCommand(opts *RootOptions) *cobra.Command {
	var props []string
	cmd := &cobra.Command{
		Use:   "add <label...>",
		Short: "add a vertex carrying the given labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, closeGraph, err := openGraph(opts)
			if err != nil {
				return err
			}
			defer closeGraph()

			inputs, err := parseProps(props)
			if err != nil {
				return err
			}
			v, err := g.AddVertex(context.Background(), args, inputs...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created vertex %v\n", v.ID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&props, "prop", nil, "a key=value property to set (repeatable)")
	return cmd
}

func parseProps(raw []string) ([]session.PropertyInput, error) {
	out := make([]session.PropertyInput, 0, len(raw))
	for _, p := range raw {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("graphctl: malformed --prop %q, expected key=value", p)
		}
		out = append(out, session.PropertyInput{
			Key:         key,
			Cardinality: element.Single,
			Value:       parseValue(value),
		})
	}
	return out, nil
}

func parseValue(s string) graphvalue.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return graphvalue.NewInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return graphvalue.NewFloat(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return graphvalue.NewBool(b)
	}
	return graphvalue.NewString(s)
}
