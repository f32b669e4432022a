package domain

import (
	"errors"
	"time"
)

// ErrInvalidCredentials is returned when login fails; it deliberately
// does not distinguish an unknown user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserExists is returned when registration collides with an
// existing username or email.
var ErrUserExists = errors.New("user already exists")

// User represents a registered account
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never exposed
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByUsernameOrEmail(value string) (*User, error)
	Count() (int64, error)
}
