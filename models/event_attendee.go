package models

import "time"

// EventAttendee records "joined" on an official event.
type EventAttendee struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_attendee_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_attendee_event_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Event *Event   `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	User  *Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
