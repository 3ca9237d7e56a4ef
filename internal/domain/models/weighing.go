package models

import "time"

// Weighing records a single weight measurement for an animal. Weighings are
// ordered by Date per animal; CreatedAt breaks ties when several weighings
// share a date.
type Weighing struct {
	ID        string    `bson:"id" json:"id"`
	AnimalID  string    `bson:"animal_id" json:"animal_id" binding:"required"`
	Date      time.Time `bson:"date" json:"date"`
	WeightKg  float64   `bson:"weight_kg" json:"weight_kg" binding:"required"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// WeighingEntry is a weighing annotated with the gain against the previous
// weighing of the same animal. Gain fields are nil on the first weighing.
type WeighingEntry struct {
	Weighing
	GainKg       *float64 `json:"gain_kg"`
	GainPerDayKg *float64 `json:"gain_per_day_kg"`
}

// PopulationSummary aggregates weight evolution across a set of animals.
type PopulationSummary struct {
	Count               int     `json:"count"`
	MeanWeightKg        float64 `json:"mean_weight_kg"`
	TotalGainKg         float64 `json:"total_gain_kg"`
	MeanGainPerWeighing float64 `json:"mean_gain_per_weighing"`
	MeanGainPerDayKg    float64 `json:"mean_gain_per_day_kg"`
}
