package models

import "time"

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;not null"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
