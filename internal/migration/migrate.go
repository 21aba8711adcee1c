package migration

import (
	"gorm.io/gorm"

	"github.com/linkup-social/linkup-backend/internal/domain"
)

// Run applies schema migrations for the tables this service owns. The users
// and posts tables belong to the account and post services and are never
// migrated here.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Friendship{},
		&domain.Message{},
		&domain.Notification{},
	)
}
