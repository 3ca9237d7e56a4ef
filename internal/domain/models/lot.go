package models

import "time"

// Lot is a named, colored grouping that animals are temporarily assigned to.
type Lot struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Number    int       `bson:"number,omitempty" json:"number,omitempty"`
	Color     string    `bson:"color" json:"color"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Assignment links an animal to a lot for a period of time. A nil ReleasedAt
// marks the assignment as active; an animal has at most one active assignment.
// The full row set is the animal's historical trail through lots.
type Assignment struct {
	ID         string     `bson:"id" json:"id"`
	AnimalID   string     `bson:"animal_id" json:"animal_id"`
	LotID      string     `bson:"lot_id" json:"lot_id"`
	AssignedAt time.Time  `bson:"assigned_at" json:"assigned_at"`
	ReleasedAt *time.Time `bson:"released_at" json:"released_at"`
}

// Active reports whether the assignment has not been released yet.
func (a Assignment) Active() bool { return a.ReleasedAt == nil }
