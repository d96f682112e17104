// Package domain contains persistence models for ingested policy records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PolicyRecord is one ingested and enriched policy transaction. Records are
// append-only: the natural key (company_id, policy_no, original_issue_date)
// is unique and rows are never updated after insertion.
type PolicyRecord struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_policy_records_natural,priority:1" json:"company_id"`
	MasterRuleID snowflake.ID `gorm:"not null" json:"master_rule_id"`

	ProductName       string `gorm:"type:text;not null" json:"product_name"`
	ProductVariant    string `gorm:"type:text;not null" json:"product_variant"`
	PremiumPayingTerm int    `gorm:"not null" json:"premium_paying_term"`
	PolicyTerm        int    `gorm:"not null" json:"policy_term"`

	PolicyNo          string    `gorm:"type:text;not null;uniqueIndex:ux_policy_records_natural,priority:2" json:"policy_no"`
	OriginalIssueDate time.Time `gorm:"not null;uniqueIndex:ux_policy_records_natural,priority:3" json:"original_issue_date"`
	IssueYear         int       `gorm:"not null;index" json:"issue_year"`
	IssueMonth        int       `gorm:"not null" json:"issue_month"`

	Premium    float64 `gorm:"not null" json:"premium"`
	SumAssured float64 `gorm:"not null;default:0" json:"sum_assured"`
	PlanType   string  `gorm:"type:text" json:"plan_type"`

	CommissionPct    float64 `gorm:"not null;default:0" json:"commission_pct"`
	RewardPct        float64 `gorm:"not null;default:0" json:"reward_pct"`
	LoadingPct       float64 `gorm:"not null;default:0" json:"loading_pct"`
	CommissionAmount float64 `gorm:"not null;default:0" json:"commission_amount"`
	RewardAmount     float64 `gorm:"not null;default:0" json:"reward_amount"`
	LoadingAmount    float64 `gorm:"not null;default:0" json:"loading_amount"`
	TotalProfit      float64 `gorm:"not null;default:0" json:"total_profit"`

	Raw datatypes.JSONMap `gorm:"type:jsonb" json:"raw,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PolicyRecord) TableName() string { return "policy_records" }
