package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() masterdomain.Repository {
	return &repo{}
}

func (r *repo) BulkInsert(ctx context.Context, db *gorm.DB, rules []*masterdomain.MasterRule) error {
	if len(rules) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(rules).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*masterdomain.MasterRule, error) {
	var rule masterdomain.MasterRule
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM master_rules WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]masterdomain.MasterRule, error) {
	var rules []masterdomain.MasterRule
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM master_rules WHERE company_id = ? ORDER BY id ASC`,
		companyID,
	).Scan(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *masterdomain.MasterRule) error {
	return db.WithContext(ctx).Exec(
		`UPDATE master_rules
		 SET product_name = ?, product_variant = ?, policy_term = ?, ppt_min = ?, ppt_max = ?,
		 total_pct = ?, commission_pct = ?, reward_pct = ?, loading_pct = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		rule.ProductName,
		rule.ProductVariant,
		rule.PolicyTerm,
		rule.PPTMin,
		rule.PPTMax,
		rule.TotalPct,
		rule.CommissionPct,
		rule.RewardPct,
		rule.LoadingPct,
		rule.UpdatedAt,
		rule.CompanyID,
		rule.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM master_rules WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Error
}
