package models

import "time"

// User - единственная персистентная сущность сервиса.
// PasswordHash никогда не сериализуется в ответах API.
type User struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     []byte    `gorm:"not null" json:"-"`
	VerificationCode string    `json:"-"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`
	PortfolioID      *int64    `json:"portfolio_id"`
	IsSub            bool      `gorm:"default:false" json:"is_sub"`
	IsAdmin          bool      `gorm:"default:false" json:"is_admin"`
	IsModer          bool      `gorm:"default:false" json:"is_moder"`
	Created          time.Time `gorm:"autoCreateTime" json:"created"`
}

func (User) TableName() string {
	return "users"
}
