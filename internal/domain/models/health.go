package models

import "time"

// HealthEventType enumerates supported health-event categories.
type HealthEventType string

const (
	HealthVaccine    HealthEventType = "vaccine"
	HealthDewormer   HealthEventType = "dewormer"
	HealthTreatment  HealthEventType = "treatment"
	HealthCheckup    HealthEventType = "checkup"
	HealthMedication HealthEventType = "medication"
)

// Valid reports whether the type is one of the known categories.
func (t HealthEventType) Valid() bool {
	switch t {
	case HealthVaccine, HealthDewormer, HealthTreatment, HealthCheckup, HealthMedication:
		return true
	default:
		return false
	}
}

// HealthEvent is an append-only per-animal health log entry.
type HealthEvent struct {
	ID          string          `bson:"id" json:"id"`
	AnimalID    string          `bson:"animal_id" json:"animal_id" binding:"required"`
	Type        HealthEventType `bson:"type" json:"type" binding:"required"`
	Description string          `bson:"description" json:"description"`
	Date        time.Time       `bson:"date" json:"date"`
	Notes       string          `bson:"notes" json:"notes"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
}
