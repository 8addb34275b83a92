package domain

import "time"

type AnnouncementType string

const (
	AnnouncementPackageDelivery       AnnouncementType = "PACKAGE_DELIVERY"
	AnnouncementShopping              AnnouncementType = "SHOPPING"
	AnnouncementInternationalPurchase AnnouncementType = "INTERNATIONAL_PURCHASE"
	AnnouncementPetSitting            AnnouncementType = "PET_SITTING"
	AnnouncementHomeService           AnnouncementType = "HOME_SERVICE"
)

// MatchableAnnouncementTypes are the types a transport route can carry.
// Service-style announcements (pet sitting, home services) are fulfilled
// by providers, not by routes.
var MatchableAnnouncementTypes = []AnnouncementType{
	AnnouncementPackageDelivery,
	AnnouncementShopping,
	AnnouncementInternationalPurchase,
}

type AnnouncementStatus string

const (
	AnnouncementActive    AnnouncementStatus = "active"
	AnnouncementAssigned  AnnouncementStatus = "assigned"
	AnnouncementInTransit AnnouncementStatus = "in_transit"
	AnnouncementDelivered AnnouncementStatus = "delivered"
	AnnouncementCancelled AnnouncementStatus = "cancelled"
	AnnouncementExpired   AnnouncementStatus = "expired"
)

type Announcement struct {
	ID              int64              `json:"id"`
	AuthorID        int64              `json:"author_id" validate:"required"`
	Type            AnnouncementType   `json:"type" validate:"required"`
	Status          AnnouncementStatus `json:"status"`
	Title           string             `json:"title" validate:"required"`
	Description     string             `json:"description,omitempty" gorm:"type:text"`
	PickupAddress   string             `json:"pickup_address" validate:"required"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	ScheduledAt     time.Time          `json:"scheduled_at" validate:"required"`
	Price           float64            `json:"price" validate:"gte=0"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// Matchable reports whether the announcement can still be paired with routes.
func (a *Announcement) Matchable() bool {
	if a.Status != AnnouncementActive {
		return false
	}
	for _, t := range MatchableAnnouncementTypes {
		if a.Type == t {
			return true
		}
	}
	return false
}
