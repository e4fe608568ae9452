package models

import "time"

type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	Username  string    `gorm:"column:username;size:30;uniqueIndex:uk_username;not null" json:"username"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex:uk_email;not null" json:"email"`
	Picture   string    `gorm:"column:picture;size:500" json:"picture"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
