package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordSetupTTL is how long the link in the welcome mail stays valid.
const PasswordSetupTTL = 48 * time.Hour

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Username            string     `gorm:"uniqueIndex;type:varchar(150);not null" json:"username"`
	FirstName           string     `gorm:"type:varchar(150)" json:"first_name"`
	LastName            string     `gorm:"type:varchar(150)" json:"last_name"`
	IsAdmin             bool       `gorm:"default:false" json:"is_admin"`
	Email               string     `gorm:"uniqueIndex;type:varchar(200);not null" json:"email"`
	Password            string     `gorm:"type:varchar(255)" json:"-"`
	EmailVerifiedAt     *time.Time `json:"email_verified_at"`
	PasswordSetupToken  string     `gorm:"type:varchar(100);index" json:"-"`
	PasswordSetupSentAt *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// GeneratePasswordSetupToken issues a new one-time token for the welcome mail.
func (u *User) GeneratePasswordSetupToken(now time.Time) string {
	u.PasswordSetupToken = uuid.NewString()
	u.PasswordSetupSentAt = &now
	return u.PasswordSetupToken
}

// IsPasswordSetupTokenValid checks the token and its PasswordSetupTTL expiry.
func (u *User) IsPasswordSetupTokenValid(token string, now time.Time) bool {
	if u.PasswordSetupToken == "" || u.PasswordSetupSentAt == nil {
		return false
	}
	if u.PasswordSetupToken != token {
		return false
	}
	return now.Sub(*u.PasswordSetupSentAt) < PasswordSetupTTL
}

// CompletePasswordSetup stores the password, clears the token and marks the email verified.
func (u *User) CompletePasswordSetup(password string, now time.Time) error {
	if err := u.SetPassword(password); err != nil {
		return err
	}
	u.PasswordSetupToken = ""
	u.PasswordSetupSentAt = nil
	if u.EmailVerifiedAt == nil {
		u.EmailVerifiedAt = &now
	}
	return nil
}
