package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationLog records every email dispatch attempt for a
// reservation. The row moves through sending -> sent | failed so the
// dispatch guard can be reconciled from the database instead of any
// client-side storage.
type NotificationLog struct {
	gorm.Model
	ReservationID uint       `json:"reservationID" gorm:"index;not null"`
	Type          string     `json:"type" gorm:"type:varchar(20);index"` // confirmation, status_update, payment
	State         string     `json:"state" gorm:"type:varchar(10)"`      // sending, sent, failed
	Recipient     string     `json:"recipient"`
	Error         string     `json:"error"`
	SentAt        *time.Time `json:"sentAt"`
}

// NotificationTypes is the accepted set for NotificationLog.Type.
var NotificationTypes = []string{"confirmation", "status_update", "payment"}
