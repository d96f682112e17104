// Package domain contains persistence models for the company service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company owns a rate table and the policy records reconciled against it.
// Totals are maintained incrementally by the ingestion pipeline and are
// never recomputed from the full policy history.
type Company struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_companies_owner_name,priority:1" json:"owner_id"`
	Name    string       `gorm:"type:text;not null;uniqueIndex:ux_companies_owner_name,priority:2" json:"name"`

	TotalPolicies   int64   `gorm:"not null;default:0" json:"total_policies"`
	TotalPremium    float64 `gorm:"not null;default:0" json:"total_premium"`
	TotalCommission float64 `gorm:"not null;default:0" json:"total_commission"`
	TotalReward     float64 `gorm:"not null;default:0" json:"total_reward"`
	TotalLoading    float64 `gorm:"not null;default:0" json:"total_loading"`
	TotalProfit     float64 `gorm:"not null;default:0" json:"total_profit"`

	LastTotalsAt *time.Time `json:"last_totals_at"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// TotalsDelta is the increment folded into a company's running totals
// after a successful ingestion batch.
type TotalsDelta struct {
	Policies   int64
	Premium    float64
	Commission float64
	Reward     float64
	Loading    float64
	Profit     float64
}

// IsZero reports whether applying the delta would be a no-op.
func (d TotalsDelta) IsZero() bool {
	return d.Policies == 0 &&
		d.Premium == 0 &&
		d.Commission == 0 &&
		d.Reward == 0 &&
		d.Loading == 0 &&
		d.Profit == 0
}
