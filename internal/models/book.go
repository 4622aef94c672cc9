package models

import "time"

type Book struct {
	ID        string     `json:"_id" bson:"_id"`
	Title     string     `json:"title" bson:"title"`
	Author    string     `json:"author" bson:"author"`
	ISBN      int64      `json:"isbn" bson:"isbn"`
	Deleted   bool       `json:"deleted" bson:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
