package models

import "time"

type User struct {
	ID           string     `json:"_id" bson:"_id"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password"`
	FirstName    string     `json:"firstName" bson:"firstName"`
	LastName     string     `json:"lastName" bson:"lastName"`
	Deleted      bool       `json:"deleted" bson:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}
