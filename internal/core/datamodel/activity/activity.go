package activity

import "time"

type Activity struct {
	ID          int64     `gorm:"primaryKey"`
	Description string    `gorm:"column:description;not null"`
	Username    string    `gorm:"column:username;size:50;index;not null"`
	Date        time.Time `gorm:"column:date;index"`
}

func (Activity) TableName() string {
	return "activities"
}
