package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphsession/internal/config"
	"github.com/roach88/graphsession/internal/graph"
	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/sqlitegraph"
)

// RootOptions holds global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	Format     string
}

// ValidFormats lists the allowed --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the graphctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "graphctl",
		Short: "graphctl drives a graph.Graph backed by a graph connection config",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.ConfigPath == "" {
				return fmt.Errorf("--config is required")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a graph connection YAML document")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newQueryCommand(opts))
	cmd.AddCommand(newCreateIndexCommand(opts))
	cmd.AddCommand(newVertexCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openGraph loads opts.ConfigPath and constructs a graph.Graph backed
// by a sqlitegraph.Driver at the configured DSN, along with a close
// function the caller must defer.
func openGraph(opts *RootOptions) (*graph.Graph, func() error, error) {
	spec, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	part, err := config.BuildPartition(spec.Partition)
	if err != nil {
		return nil, nil, err
	}
	driver, err := sqlitegraph.Open(spec.DSN, spec.IDProvider.FieldName, part)
	if err != nil {
		return nil, nil, fmt.Errorf("graphctl: open back-end: %w", err)
	}

	var refiller idprovider.Refiller
	if spec.IDProvider.Strategy == "sequence" {
		refiller = driver
	}
	vertexIDs, err := config.BuildIDProvider(spec.IDProvider, refiller)
	if err != nil {
		return nil, nil, err
	}
	edgeIDs, err := config.BuildIDProvider(spec.IDProvider, refiller)
	if err != nil {
		return nil, nil, err
	}

	g := graph.New(graph.Config{
		Driver:    driver,
		Partition: part,
		VertexIDs: vertexIDs,
		EdgeIDs:   edgeIDs,
	})
	return g, func() error { return driver.Close(context.Background()) }, nil
}
