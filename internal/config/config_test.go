package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
)

const validYAML = `
dsn: "sqlite:///tmp/graph.db"
partition:
  mode: all
  labels: ["Person"]
idProvider:
  strategy: sequence
  poolSize: 500
`

func TestParse_ValidDocument_AppliesDefaultsForUnsetFields(t *testing.T) {
	spec, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///tmp/graph.db", spec.DSN)
	assert.Equal(t, 8, spec.PoolSize)
	assert.Equal(t, "all", spec.Partition.Mode)
	assert.Equal(t, []string{"Person"}, spec.Partition.Labels)
	assert.Equal(t, "sequence", spec.IDProvider.Strategy)
	assert.Equal(t, "id", spec.IDProvider.FieldName)
	assert.Equal(t, "UniqueIdentifierGenerator", spec.IDProvider.SequenceLabel)
	assert.Equal(t, int64(500), spec.IDProvider.PoolSize)
}

func TestParse_RejectsUnknownPartitionMode(t *testing.T) {
	_, err := Parse([]byte(`
dsn: "sqlite:///tmp/graph.db"
partition:
  mode: everything
idProvider:
  strategy: native
`))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownIDProviderStrategy(t *testing.T) {
	_, err := Parse([]byte(`
dsn: "sqlite:///tmp/graph.db"
partition:
  mode: unrestricted
idProvider:
  strategy: random
`))
	assert.Error(t, err)
}

func TestParse_RejectsMissingDSN(t *testing.T) {
	_, err := Parse([]byte(`
partition:
  mode: unrestricted
idProvider:
  strategy: native
`))
	assert.Error(t, err)
}

func TestParse_OmittedPoolSize_FallsBackToDefault(t *testing.T) {
	spec, err := Parse([]byte(`
dsn: "sqlite:///tmp/graph.db"
partition:
  mode: unrestricted
idProvider:
  strategy: native
`))
	require.NoError(t, err)
	assert.Equal(t, 8, spec.PoolSize)
}

func TestParse_RejectsNegativePoolSize(t *testing.T) {
	_, err := Parse([]byte(`
dsn: "sqlite:///tmp/graph.db"
poolSize: -3
partition:
  mode: unrestricted
idProvider:
  strategy: native
`))
	assert.Error(t, err)
}

func TestLoad_ReadsFileFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///tmp/graph.db", spec.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestBuildPartition(t *testing.T) {
	p, err := BuildPartition(PartitionSpec{Mode: "unrestricted"})
	require.NoError(t, err)
	assert.True(t, p.ContainsVertex([]string{"Anything"}))

	p, err = BuildPartition(PartitionSpec{Mode: "all", Labels: []string{"Person"}})
	require.NoError(t, err)
	assert.False(t, p.ContainsVertex([]string{"Company"}))

	p, err = BuildPartition(PartitionSpec{Mode: "any", Labels: []string{"Person", "Company"}})
	require.NoError(t, err)
	assert.True(t, p.ContainsVertex([]string{"Company"}))

	_, err = BuildPartition(PartitionSpec{Mode: "bogus"})
	assert.Error(t, err)
}

type fakeRefiller struct{}

func (fakeRefiller) ReserveIDPool(context.Context, string, int64) (int64, error) { return 1, nil }

func TestBuildIDProvider(t *testing.T) {
	p, err := BuildIDProvider(IDProviderSpec{Strategy: "native", FieldName: "id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "id", p.FieldName())

	_, err = BuildIDProvider(IDProviderSpec{Strategy: "sequence"}, nil)
	assert.Error(t, err)

	p, err = BuildIDProvider(IDProviderSpec{Strategy: "sequence", FieldName: "id", PoolSize: 10}, fakeRefiller{})
	require.NoError(t, err)
	assert.Equal(t, "id", p.FieldName())

	_, err = BuildIDProvider(IDProviderSpec{Strategy: "nonsense"}, nil)
	assert.Error(t, err)
}

var _ idprovider.Refiller = fakeRefiller{}
var _ partition.Partition = partition.Unrestricted()
