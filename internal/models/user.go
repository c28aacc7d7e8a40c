// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string         `json:"username" gorm:"size:50;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	Role         UserRole       `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	ImageURLs    pq.StringArray `json:"image_urls" gorm:"type:text[]"`
	Address      string         `json:"address" gorm:"size:255"`
	City         string         `json:"city" gorm:"size:100"`
	State        string         `json:"state" gorm:"size:100"`
	Country      string         `json:"country" gorm:"size:100"`
	ContactNo    string         `json:"contact_no" gorm:"size:15"`
	LastLoginAt  *time.Time     `json:"last_login_at"`

	// Relationships
	Bids []Bid `json:"bids,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
