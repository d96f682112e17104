package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() companydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *companydomain.Company) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO companies (id, owner_id, name, total_policies, total_premium, total_commission,
		 total_reward, total_loading, total_profit, created_at, updated_at)
		 VALUES (?, ?, ?, 0, 0, 0, 0, 0, 0, ?, ?)`,
		c.ID,
		c.OwnerID,
		c.Name,
		c.CreatedAt,
		c.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM companies WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, name string) (*companydomain.Company, error) {
	var company companydomain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM companies WHERE owner_id = ? AND name = ?`,
		ownerID,
		name,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]companydomain.Company, error) {
	var companies []companydomain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM companies WHERE owner_id = ? ORDER BY created_at ASC`,
		ownerID,
	).Scan(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// ApplyTotalsDelta is a single conditional UPDATE; the database serializes
// concurrent increments for the same company, so no read-modify-write cycle
// (and no in-process lock) is involved.
func (r *repo) ApplyTotalsDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta companydomain.TotalsDelta, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE companies SET
		 total_policies = total_policies + ?,
		 total_premium = total_premium + ?,
		 total_commission = total_commission + ?,
		 total_reward = total_reward + ?,
		 total_loading = total_loading + ?,
		 total_profit = total_profit + ?,
		 last_totals_at = ?,
		 updated_at = ?
		 WHERE id = ?`,
		delta.Policies,
		delta.Premium,
		delta.Commission,
		delta.Reward,
		delta.Loading,
		delta.Profit,
		at,
		at,
		id,
	).Error
}

func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM policy_records WHERE company_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM master_rules WHERE company_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM companies WHERE owner_id = ? AND id = ?`, ownerID, id).Error
	})
}
