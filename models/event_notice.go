package models

import "time"

// EventNotice marks that a scheduled-sweep notification kind has already
// been sent for an event, so overlapping sweep windows do not notify the
// same attendees twice.
type EventNotice struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID uint      `gorm:"not null;uniqueIndex:idx_notice_event_kind" json:"event_id"`
	Kind    string    `gorm:"size:50;not null;uniqueIndex:idx_notice_event_kind" json:"kind"`
	SentAt  time.Time `gorm:"autoCreateTime" json:"sent_at"`

	Event *Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (EventNotice) TableName() string {
	return "event_notices"
}
