package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnrestricted_AcceptsEverything(t *testing.T) {
	p := Unrestricted()
	assert.True(t, p.ValidateLabel("Anything"))
	assert.True(t, p.ContainsVertex(nil))
	assert.True(t, p.ContainsVertex([]string{"Person"}))
	assert.Nil(t, p.MatchPatternLabels())
	assert.Equal(t, "", p.MatchPredicate("n"))
}

func TestAllLabels_RequiresEveryLabelPresent(t *testing.T) {
	p := AllLabels("Person", "Admin")

	assert.True(t, p.ContainsVertex([]string{"Person", "Admin", "Extra"}))
	assert.False(t, p.ContainsVertex([]string{"Person"}))
	assert.False(t, p.ContainsVertex([]string{"Admin"}))
}

func TestAllLabels_ReservesItsLabels(t *testing.T) {
	p := AllLabels("Person")

	assert.False(t, p.ValidateLabel("Person"))
	assert.True(t, p.ValidateLabel("Admin"))
	assert.Equal(t, []string{"Person"}, p.MatchPatternLabels())
	assert.Equal(t, "", p.MatchPredicate("n"))
}

func TestAllLabels_IsCaseFold(t *testing.T) {
	p := AllLabels("Person")

	assert.False(t, p.ValidateLabel("person"))
	assert.True(t, p.ContainsVertex([]string{"PERSON"}))
}

func TestAnyLabel_MatchesIntersection(t *testing.T) {
	p := AnyLabel("Person", "Company")

	assert.True(t, p.ContainsVertex([]string{"Person"}))
	assert.True(t, p.ContainsVertex([]string{"Company", "Extra"}))
	assert.False(t, p.ContainsVertex([]string{"Other"}))
}

func TestAnyLabel_SingleLabelUsesMatchPattern(t *testing.T) {
	p := AnyLabel("Person")

	assert.Equal(t, []string{"Person"}, p.MatchPatternLabels())
	assert.Equal(t, "", p.MatchPredicate("n"))
}

func TestAnyLabel_MultipleLabelsUsesPredicate(t *testing.T) {
	p := AnyLabel("Company", "Person")

	assert.Nil(t, p.MatchPatternLabels())
	assert.Equal(t, "(n:`Company` OR n:`Person`)", p.MatchPredicate("n"))
}

func TestAnyLabel_DoesNotReserveItsLabels(t *testing.T) {
	p := AnyLabel("Person", "Company")

	assert.True(t, p.ValidateLabel("Company"))
	assert.True(t, p.ValidateLabel("Other"))
}
