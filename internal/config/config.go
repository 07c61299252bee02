package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// PartitionSpec describes which vertices a Session may observe.
type PartitionSpec struct {
	Mode   string   `yaml:"mode"`
	Labels []string `yaml:"labels"`
}

// IDProviderSpec describes which idprovider.Provider strategy to
// construct, and its tunables.
type IDProviderSpec struct {
	Strategy      string `yaml:"strategy"`
	FieldName     string `yaml:"fieldName"`
	SequenceLabel string `yaml:"sequenceLabel"`
	PoolSize      int64  `yaml:"poolSize"`
}

// Spec is a validated graph connection document: where the back-end
// lives, how large its connection pool should be, which vertices are
// in scope, and how element identifiers are allocated.
type Spec struct {
	DSN        string         `yaml:"dsn"`
	PoolSize   int            `yaml:"poolSize"`
	Partition  PartitionSpec  `yaml:"partition"`
	IDProvider IDProviderSpec `yaml:"idProvider"`
}

// Load reads the YAML document at path, validates it against the
// embedded CUE schema, and returns the resulting Spec.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes a YAML document already in memory. It is
// the bulk of what Load does, split out so callers that already hold
// the bytes (e.g. a CLI flag carrying inline YAML) don't need a file.
func Parse(data []byte) (*Spec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config: compile schema: %w", err)
	}
	doc := ctx.Encode(raw)
	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if spec.PoolSize == 0 {
		spec.PoolSize = 8
	}
	if spec.IDProvider.FieldName == "" {
		spec.IDProvider.FieldName = "id"
	}
	if spec.IDProvider.SequenceLabel == "" {
		spec.IDProvider.SequenceLabel = "UniqueIdentifierGenerator"
	}
	if spec.IDProvider.PoolSize == 0 {
		spec.IDProvider.PoolSize = 1000
	}
	return &spec, nil
}
