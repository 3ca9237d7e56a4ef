package models

import "time"

// Supplier is the party an animal was acquired from.
type Supplier struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email" json:"email"`
	Location  string    `bson:"location" json:"location"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Carrier is the transport party used at acquisition.
type Carrier struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Phone     string    `bson:"phone" json:"phone"`
	Plate     string    `bson:"plate" json:"plate"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
