package models

import "time"

const (
	NotificationNewMessage       = "new_message"
	NotificationEventOfficial    = "event_official"
	NotificationStartingSoon     = "event_starting_soon"
	NotificationStartingNow      = "event_starting_now"
	NotificationEventTimeChanged = "event_time_changed"
	NotificationEventCancelled   = "event_cancelled"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	EventID   *uint          `gorm:"index" json:"event_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Link      *string        `gorm:"size:512" json:"link"`
	Metadata  map[string]any `gorm:"serializer:json;type:text" json:"metadata"`
	Read      bool           `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`

	User  *Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Event *Event   `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:SET NULL;" json:"event,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
