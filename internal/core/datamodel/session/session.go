package session

import "time"

type Session struct {
	ID        string    `gorm:"column:id;primaryKey;size:64" db:"id"`
	Username  string    `gorm:"column:username;size:50;index;not null" db:"username"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null" db:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at" db:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}
