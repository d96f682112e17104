package domain

import (
	"context"
	"errors"
)

// UploadRateTableRequest carries one uploaded rate table file. CompanyName
// is optional; when empty the company name is derived from the filename.
type UploadRateTableRequest struct {
	Filename    string
	Content     []byte
	CompanyName string
}

type UploadRateTableResult struct {
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	RulesAdded  int        `json:"rules_added"`
	Errors      []RowError `json:"errors,omitempty"`
}

// RowError records one rejected rate table row.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type UpdateRuleRequest struct {
	CompanyID string
	RuleID    string

	ProductName    *string
	ProductVariant *string
	PolicyTerm     *int
	PPTMin         *int
	PPTMax         *int
	TotalPct       *float64
	CommissionPct  *float64
	RewardPct      *float64
	LoadingPct     *float64
}

type Service interface {
	UploadRateTable(ctx context.Context, req UploadRateTableRequest) (*UploadRateTableResult, error)
	ListByCompany(ctx context.Context, companyID string) ([]MasterRule, error)
	Update(ctx context.Context, req UpdateRuleRequest) (*MasterRule, error)
	Delete(ctx context.Context, companyID, ruleID string) error
}

// CompanyNameTransform derives a company name from an uploaded filename.
// Supplied from the outside so callers can override the derivation.
type CompanyNameTransform func(filename string) string

var (
	ErrInvalidFile    = errors.New("invalid_rate_table_file")
	ErrEmptyFile      = errors.New("empty_rate_table_file")
	ErrInvalidRule    = errors.New("invalid_master_rule")
	ErrRuleNotFound   = errors.New("master_rule_not_found")
	ErrInvalidCompany = errors.New("invalid_company")
)
