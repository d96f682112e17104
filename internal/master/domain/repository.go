package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	BulkInsert(ctx context.Context, db *gorm.DB, rules []*MasterRule) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*MasterRule, error)
	// ListByCompany returns the company's rules in creation order, which is
	// the matcher's tie-break order.
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]MasterRule, error)
	Update(ctx context.Context, db *gorm.DB, rule *MasterRule) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
}
