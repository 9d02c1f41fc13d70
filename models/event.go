package models

import "time"

const (
	EventStatusTentative = "tentative"
	EventStatusOfficial  = "official"

	EventVisibilityPublic  = "public"
	EventVisibilityPrivate = "private"
)

type Event struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	HostID           uint       `gorm:"not null;index" json:"host_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      *string    `gorm:"type:text" json:"description"`
	DateTime         *time.Time `gorm:"index" json:"date_time"`
	EndTime          *time.Time `json:"end_time"`
	Location         *string    `gorm:"size:255" json:"location"`
	LocationBuilding *string    `gorm:"size:255;index" json:"location_building"`
	Tags             []string   `gorm:"serializer:json;type:text" json:"tags"`
	Status           string     `gorm:"size:20;default:'tentative';index" json:"status"`     // tentative | official
	Visibility       string     `gorm:"size:20;default:'public';index" json:"visibility"`    // public | private
	ShareToken       string     `gorm:"size:64;uniqueIndex" json:"share_token"`              // direct link for private events
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Host *Profile `gorm:"foreignKey:HostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"host,omitempty"`

	Prospects []EventProspect `gorm:"foreignKey:EventID" json:"-"`
	Attendees []EventAttendee `gorm:"foreignKey:EventID" json:"-"`
	Messages  []EventMessage  `gorm:"foreignKey:EventID" json:"-"`
}

func (Event) TableName() string {
	return "events"
}
