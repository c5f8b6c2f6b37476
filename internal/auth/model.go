package auth

import (
	"time"
)

// ============================
// 🔷 GORM User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"type:varchar(150);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"` // stored lowercased
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Status       string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
