package models

import "time"

// EventMessage is a chat message inside an event. Immutable once created;
// visible only to the event's host, prospects and attendees.
type EventMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Event *Event   `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	User  *Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (EventMessage) TableName() string {
	return "event_messages"
}
