package config

import (
	"fmt"

	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
)

// BuildPartition constructs the partition.Partition described by
// spec.
func BuildPartition(spec PartitionSpec) (partition.Partition, error) {
	switch spec.Mode {
	case "unrestricted", "":
		return partition.Unrestricted(), nil
	case "all":
		return partition.AllLabels(spec.Labels...), nil
	case "any":
		return partition.AnyLabel(spec.Labels...), nil
	default:
		return nil, fmt.Errorf("config: unknown partition mode %q", spec.Mode)
	}
}

// BuildIDProvider constructs the idprovider.Provider described by
// spec. A "sequence" strategy needs refiller to reserve pools from;
// the "native" strategy ignores it.
func BuildIDProvider(spec IDProviderSpec, refiller idprovider.Refiller) (idprovider.Provider, error) {
	switch spec.Strategy {
	case "native", "":
		return idprovider.NewNative(spec.FieldName), nil
	case "sequence":
		if refiller == nil {
			return nil, fmt.Errorf("config: sequence id provider requires a refiller")
		}
		return idprovider.NewSequence(refiller, spec.FieldName, spec.SequenceLabel, spec.PoolSize), nil
	default:
		return nil, fmt.Errorf("config: unknown id provider strategy %q", spec.Strategy)
	}
}
