package models

import "time"

type Profile struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:255;unique;not null" json:"email"`
	FullName     *string   `gorm:"size:255" json:"full_name"`
	AvatarURL    *string   `gorm:"size:512" json:"avatar_url"`
	Interests    []string  `gorm:"serializer:json;type:text" json:"interests"`
	PasswordHash *string   `gorm:"size:255" json:"-"` // empty for Google-only accounts
	GoogleSub    *string   `gorm:"size:255;index" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Events []Event `gorm:"foreignKey:HostID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}
