package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var macros = []string{
	"define_operator",
	"define_operator_extended",
	"define_operator_commutative",
	"define_operator_extended_commutative",
}

func TestRankCandidates(t *testing.T) {
	ranked := RankCandidates("define_operator_extend", macros)
	require.Len(t, ranked, len(macros))

	best, ok := ranked.Best()
	require.True(t, ok)
	assert.Equal(t, "define_operator_extended", best.Name)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankCandidates_Empty(t *testing.T) {
	ranked := RankCandidates("x", nil)

	_, ok := ranked.Best()
	assert.False(t, ok)
	assert.Empty(t, ranked.AboveThreshold(0))
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"define_operater", "define_operator", true},
		{"defineOperator", "define_operator", true},
		{"define_operator_comutative", "define_operator_commutative", true},
		{"define_operator", "", false},
		{"impl_op", "", false},
		{"define_operand", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.name, macros, DefaultThreshold)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
