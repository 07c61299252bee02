package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
)

func newQueryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <statement>",
		Short: "run a raw statement against the graph and print the rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, closeGraph, err := openGraph(opts)
			if err != nil {
				return err
			}
			defer closeGraph()

			rows, err := g.Query(context.Background(), graphdriver.Statement{Text: args[0]})
			if err != nil {
				return err
			}
			return printRows(cmd, opts, rows)
		},
	}
}

func printRows(cmd *cobra.Command, opts *RootOptions, rows []any) error {
	if opts.Format == "json" {
		docs := make([]any, len(rows))
		for i, row := range rows {
			docs[i] = rowToDoc(row)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	for _, row := range rows {
		switch v := row.(type) {
		case *element.Vertex:
			fmt.Fprintf(cmd.OutOrStdout(), "vertex %v %v %v\n", v.ID, v.Labels, v.Properties)
		case *element.Edge:
			fmt.Fprintf(cmd.OutOrStdout(), "edge %v %s %v->%v %v\n", v.ID, v.Label, v.Out.ID, v.In.ID, v.Properties)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
		}
	}
	return nil
}

// rowToDoc flattens a query row into a plain map for JSON output.
// Vertex and Edge carry cyclic back-references (VertexProperty.Owner,
// edge/vertex adjacency) that would otherwise recurse forever under
// json.Marshal.
func rowToDoc(row any) any {
	switch v := row.(type) {
	case *element.Vertex:
		props := make(map[string]any, len(v.Properties))
		for key := range v.Properties {
			props[key] = v.PropertyValues(key)
		}
		return map[string]any{"kind": "vertex", "id": v.ID, "labels": v.Labels, "properties": props}
	case *element.Edge:
		props := make(map[string]any, len(v.Properties))
		for key, val := range v.Properties {
			props[key] = val
		}
		return map[string]any{"kind": "edge", "id": v.ID, "label": v.Label, "out": v.Out.ID, "in": v.In.ID, "properties": props}
	default:
		return v
	}
}
