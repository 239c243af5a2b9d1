package models

import "time"

// Upload records a stored object and the user who uploaded it.
type Upload struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Filename    string    `json:"filename" gorm:"not null;type:varchar(255)"`
	StorageKey  string    `json:"key" gorm:"column:storage_key;not null;uniqueIndex;type:varchar(512)"`
	Size        int64     `json:"size" gorm:"not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;not null"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Upload) TableName() string {
	return "uploads"
}
