package models

import "time"

// AnimalStatus enumerates the lifecycle states of an animal. Animals are never
// hard-deleted; a sale transitions the status instead.
type AnimalStatus string

const (
	StatusInField AnimalStatus = "in_field"
	StatusSold    AnimalStatus = "sold"
)

// ConditionGrade is the ordered physical-condition scale.
type ConditionGrade string

const (
	ConditionCritical  ConditionGrade = "critical"
	ConditionPoor      ConditionGrade = "poor"
	ConditionGood      ConditionGrade = "good"
	ConditionExcellent ConditionGrade = "excellent"
)

// Rank returns the position of the grade on the ordered scale, -1 for unknown
// values.
func (g ConditionGrade) Rank() int {
	switch g {
	case ConditionCritical:
		return 0
	case ConditionPoor:
		return 1
	case ConditionGood:
		return 2
	case ConditionExcellent:
		return 3
	default:
		return -1
	}
}

// Valid reports whether the grade is one of the known values.
func (g ConditionGrade) Valid() bool { return g.Rank() >= 0 }

// Animal is the identity record for a single head of stock. Ear tag number and
// color together form the human-facing identifier; it is only unique among
// animals currently in field.
type Animal struct {
	ID            string         `bson:"id" json:"id"`
	TagNumber     string         `bson:"tag_number" json:"tag_number" binding:"required"`
	TagColor      string         `bson:"tag_color" json:"tag_color"`
	Category      string         `bson:"category" json:"category" binding:"required"`
	Condition     ConditionGrade `bson:"condition" json:"condition"`
	EntryWeightKg float64        `bson:"entry_weight_kg" json:"entry_weight_kg"`
	EntryDate     time.Time      `bson:"entry_date" json:"entry_date"`
	Status        AnimalStatus   `bson:"status" json:"status"`
	SupplierID    string         `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	CarrierID     string         `bson:"carrier_id,omitempty" json:"carrier_id,omitempty"`
	CreatedAt     time.Time      `bson:"created_at" json:"created_at"`
}
