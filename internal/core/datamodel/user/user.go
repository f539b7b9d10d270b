package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	FullName     string    `gorm:"column:full_name;size:255"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Phone        string    `gorm:"column:phone;size:50"`
	Role         string    `gorm:"column:role;size:20;not null;default:Teknisi"`
	Photo        string    `gorm:"column:photo;size:255"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
