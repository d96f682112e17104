// Package domain contains persistence models for the rate table service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MasterRule is one pricing row of a company's commission rate table.
// PPTMax nil means "PPTMin or more years" (unbounded above).
type MasterRule struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`

	ProductName    string `gorm:"type:text;not null" json:"product_name"`
	ProductVariant string `gorm:"type:text;not null" json:"product_variant"`
	PolicyTerm     int    `gorm:"not null" json:"policy_term"`
	PPTMin         int    `gorm:"column:ppt_min;not null" json:"ppt_min"`
	PPTMax         *int   `gorm:"column:ppt_max" json:"ppt_max"`

	TotalPct      float64 `gorm:"not null;default:0" json:"total_pct"`
	CommissionPct float64 `gorm:"not null;default:0" json:"commission_pct"`
	RewardPct     float64 `gorm:"not null;default:0" json:"reward_pct"`
	LoadingPct    float64 `gorm:"not null;default:0" json:"loading_pct"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MasterRule) TableName() string { return "master_rules" }
