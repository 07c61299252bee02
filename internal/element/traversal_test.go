package element

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/graphsession/internal/partition"
)

func TestBuildIncidentEdgesStatement_UntypedOutgoing_Golden(t *testing.T) {
	v := NewVertex(int64(1), []string{"Person"})
	stmt := BuildIncidentEdgesStatement(v, Out, nil, nil, "id", partition.Unrestricted())
	assertStatementGolden(t, "traversal_out_untyped", stmt)
}

func TestBuildIncidentEdgesStatement_MultiLabelIncomingWithExclusions_Golden(t *testing.T) {
	v := NewVertex(int64(1), []string{"Person"})
	p := partition.AllLabels("Person")
	stmt := BuildIncidentEdgesStatement(v, In, []string{"Knows", "Likes"}, []any{int64(5), int64(6)}, "id", p)
	assertStatementGolden(t, "traversal_in_multilabel_excluding", stmt)
}

func TestBuildIncidentEdgesStatement_SingleLabelInlinesRelationshipType(t *testing.T) {
	v := NewVertex(int64(1), []string{"Person"})
	stmt := BuildIncidentEdgesStatement(v, Both, []string{"Knows"}, nil, "id", partition.Unrestricted())
	assert.Contains(t, stmt.Text, "[r:`Knows`]")
	assert.NotContains(t, stmt.Text, "type(r) IN")
}

func TestDirection_Arrow(t *testing.T) {
	assert.Equal(t, "-[r]->", Out.arrow("[r]"))
	assert.Equal(t, "<-[r]-", In.arrow("[r]"))
	assert.Equal(t, "-[r]-", Both.arrow("[r]"))
}
