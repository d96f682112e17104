package domain

import "strings"

// MatchQuery carries the product attributes of one parsed policy row.
type MatchQuery struct {
	ProductName       string
	ProductVariant    string
	PolicyTerm        int
	PremiumPayingTerm int
}

// Match returns the first rule matching the query, or nil.
//
// Product name and variant compare case-insensitively after trimming, policy
// term is exact, and the premium paying term must fall within [PPTMin,
// PPTMax] with a nil PPTMax meaning unbounded above. Overlapping ranges are
// resolved by insertion order: the rules slice is expected in creation order
// and the first match wins.
func Match(rules []MasterRule, q MatchQuery) *MasterRule {
	name := strings.TrimSpace(q.ProductName)
	variant := strings.TrimSpace(q.ProductVariant)

	for i := range rules {
		rule := &rules[i]
		if !strings.EqualFold(strings.TrimSpace(rule.ProductName), name) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(rule.ProductVariant), variant) {
			continue
		}
		if rule.PolicyTerm != q.PolicyTerm {
			continue
		}
		if q.PremiumPayingTerm < rule.PPTMin {
			continue
		}
		if rule.PPTMax != nil && q.PremiumPayingTerm > *rule.PPTMax {
			continue
		}
		return rule
	}
	return nil
}
