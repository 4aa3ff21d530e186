package database

import (
	"tripvia/internal/bookings"
	"tripvia/internal/catalog"
	"tripvia/internal/notifications"
	"tripvia/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() defaults on the models need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&catalog.Trip{},
		&catalog.Travel{},
		&bookings.Booking{},
		&bookings.PaymentProof{},
		&notifications.Notification{},
	)
}
