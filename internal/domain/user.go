package domain

import "time" // Timestamps

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey"`                    // Primary key
	Name         string    `gorm:"size:120;not null"`             // Display name
	Email        string    `gorm:"size:255;uniqueIndex;not null"` // Unique login key
	PasswordHash string    `gorm:"size:255;not null"`             // Hashed password, never serialized
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`       // Registration time
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID        uint   `json:"id"`         // User ID
	Name      string `json:"name"`       // Display name
	Email     string `json:"email"`      // Email address
	CreatedAt string `json:"created_at"` // RFC 3339 timestamp
}

// Public returns the user without its credential
func (u User) Public() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
