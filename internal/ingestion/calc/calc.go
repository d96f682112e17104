// Package calc derives commission amounts from a matched rate rule.
package calc

import (
	"strings"

	"github.com/shopspring/decimal"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
)

// unitLinkedPlanType is the one plan-type literal that suppresses loading.
// Any other value, recognized or not, applies the rule's loading rate.
const unitLinkedPlanType = "ul"

// Breakdown carries the applied percentages and derived amounts for one
// policy row. When loading is suppressed both LoadingPct and LoadingAmount
// are zero, so consumers never see a nonzero rate with a zero amount.
type Breakdown struct {
	CommissionPct    float64
	RewardPct        float64
	LoadingPct       float64
	CommissionAmount float64
	RewardAmount     float64
	LoadingAmount    float64
	TotalProfit      float64
}

// Compute derives percentage-of-premium amounts from rule and premium.
// Loading applies unless planType is the unit-linked literal.
func Compute(rule masterdomain.MasterRule, premium float64, planType string) Breakdown {
	b := Breakdown{
		CommissionPct: rule.CommissionPct,
		RewardPct:     rule.RewardPct,
		LoadingPct:    rule.LoadingPct,
	}

	if strings.EqualFold(strings.TrimSpace(planType), unitLinkedPlanType) {
		b.LoadingPct = 0
	}

	commission := pctOf(premium, b.CommissionPct)
	reward := pctOf(premium, b.RewardPct)
	loading := pctOf(premium, b.LoadingPct)

	b.CommissionAmount = commission.InexactFloat64()
	b.RewardAmount = reward.InexactFloat64()
	b.LoadingAmount = loading.InexactFloat64()
	b.TotalProfit = commission.Add(reward).Add(loading).InexactFloat64()
	return b
}

var hundred = decimal.NewFromInt(100)

func pctOf(amount float64, pct float64) decimal.Decimal {
	if pct == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(pct)).Div(hundred)
}
