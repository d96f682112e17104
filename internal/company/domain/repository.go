package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Company, error)
	FindByName(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, name string) (*Company, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]Company, error)
	// ApplyTotalsDelta folds delta into the company's running totals with a
	// single in-place UPDATE so concurrent batches never lose an increment.
	ApplyTotalsDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta TotalsDelta, at time.Time) error
	// DeleteCascade removes the company together with its master rules and
	// policy records in one transaction.
	DeleteCascade(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
}
