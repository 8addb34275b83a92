package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table the
// repositories own. Intended for local development and seeding.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&routeModel{},
		&announcementModel{},
		&matchModel{},
		&deliveryModel{},
	)
}
