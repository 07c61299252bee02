package idprovider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultNativeFieldName is the property name used for client-generated
// identifiers when the back-end has no identity concept of its own.
const DefaultNativeFieldName = "id"

// Native is an idprovider.Provider that generates identifiers
// client-side with github.com/google/uuid. It is used for back-ends
// (or reference drivers) that do not assign their own element ids.
type Native struct {
	fieldName string
}

// NewNative constructs a Native provider storing ids under fieldName.
// An empty fieldName falls back to DefaultNativeFieldName.
func NewNative(fieldName string) *Native {
	if fieldName == "" {
		fieldName = DefaultNativeFieldName
	}
	return &Native{fieldName: fieldName}
}

// FieldName implements Provider.
func (n *Native) FieldName() string { return n.fieldName }

// Generate implements Provider. It never fails.
func (n *Native) Generate(_ context.Context) (any, error) {
	return uuid.New().String(), nil
}

// Canonicalize implements Provider, accepting either a string or a
// uuid.UUID and normalizing to the string form used by Generate.
func (n *Native) Canonicalize(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		if _, err := uuid.Parse(v); err != nil {
			return nil, fmt.Errorf("idprovider: invalid native id %q: %w", v, err)
		}
		return v, nil
	case uuid.UUID:
		return v.String(), nil
	case fmt.Stringer:
		return n.Canonicalize(v.String())
	default:
		return nil, fmt.Errorf("idprovider: cannot canonicalize native id of type %T", raw)
	}
}
