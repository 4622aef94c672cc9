package models

import "time"

// PasswordResetToken хранит только хеш токена, сам токен уходит пользователю в письме.
type PasswordResetToken struct {
	ID        string    `json:"_id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	TokenHash string    `json:"-" bson:"tokenHash"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
