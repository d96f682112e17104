package migration

import (
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	"github.com/smallbiznis/brokerage/internal/config"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if !cfg.RunMigrations {
			return nil
		}

		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres (development) databases fall back to AutoMigrate.
		return conn.AutoMigrate(
			&companydomain.Company{},
			&masterdomain.MasterRule{},
			&policydomain.PolicyRecord{},
		)
	}),
)
