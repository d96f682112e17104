package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intptr(v int) *int { return &v }

func TestMatch_RangeBoundary(t *testing.T) {
	rules := []MasterRule{{
		ID:          1,
		ProductName: "Term",
		ProductVariant: "Gold",
		PolicyTerm:  20,
		PPTMin:      5,
		PPTMax:      nil,
	}}

	base := MatchQuery{ProductName: "Term", ProductVariant: "Gold", PolicyTerm: 20}

	for _, ppt := range []int{5, 6, 1000} {
		q := base
		q.PremiumPayingTerm = ppt
		assert.NotNil(t, Match(rules, q), "ppt=%d", ppt)
	}

	q := base
	q.PremiumPayingTerm = 4
	assert.Nil(t, Match(rules, q))
}

func TestMatch_BoundedRange(t *testing.T) {
	rules := []MasterRule{{
		ProductName: "Term",
		PolicyTerm:  20,
		PPTMin:      5,
		PPTMax:      intptr(10),
	}}

	q := MatchQuery{ProductName: "Term", PolicyTerm: 20, PremiumPayingTerm: 10}
	assert.NotNil(t, Match(rules, q))

	q.PremiumPayingTerm = 11
	assert.Nil(t, Match(rules, q))
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	rules := []MasterRule{{
		ProductName:    " Term ",
		ProductVariant: "GOLD",
		PolicyTerm:     20,
		PPTMin:         1,
	}}

	q := MatchQuery{ProductName: "term", ProductVariant: " gold", PolicyTerm: 20, PremiumPayingTerm: 5}
	assert.NotNil(t, Match(rules, q))
}

func TestMatch_ExactPolicyTerm(t *testing.T) {
	rules := []MasterRule{{ProductName: "Term", PolicyTerm: 20, PPTMin: 1}}

	q := MatchQuery{ProductName: "Term", PolicyTerm: 21, PremiumPayingTerm: 5}
	assert.Nil(t, Match(rules, q))
}

func TestMatch_FirstMatchWins(t *testing.T) {
	// Overlapping ranges are resolved by insertion order, never rejected.
	rules := []MasterRule{
		{ID: 1, ProductName: "Term", PolicyTerm: 20, PPTMin: 5, PPTMax: intptr(15), CommissionPct: 5},
		{ID: 2, ProductName: "Term", PolicyTerm: 20, PPTMin: 10, PPTMax: nil, CommissionPct: 9},
	}

	q := MatchQuery{ProductName: "Term", PolicyTerm: 20, PremiumPayingTerm: 12}
	match := Match(rules, q)
	assert.NotNil(t, match)
	assert.Equal(t, rules[0].ID, match.ID)
}
