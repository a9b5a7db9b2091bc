package migration

import (
	contactdomain "github.com/thinkzo/intake/internal/contact/domain"
	"github.com/thinkzo/intake/internal/config"
	orderdomain "github.com/thinkzo/intake/internal/order/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// golang-migrate sources are written for postgres; other
			// dialects fall back to the model schema.
			return conn.AutoMigrate(
				&contactdomain.ContactSubmission{},
				&orderdomain.Order{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
