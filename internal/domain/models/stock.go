package models

import "time"

// LotUnassigned is the display name used when an animal has no active
// assignment.
const LotUnassigned = "unassigned"

// StockView is the denormalized current-state row for one in-field animal:
// the animal joined with its current lot, supplier, carrier and most recent
// weight.
type StockView struct {
	Animal
	CurrentLotID   string     `json:"current_lot_id,omitempty"`
	CurrentLotName string     `json:"current_lot_name"`
	SupplierName   string     `json:"supplier_name,omitempty"`
	CarrierName    string     `json:"carrier_name,omitempty"`
	LatestWeightKg *float64   `json:"latest_weight_kg"`
	LastWeighedAt  *time.Time `json:"last_weighed_at"`
}

// Assigned reports whether the row currently sits in a lot.
func (v StockView) Assigned() bool { return v.CurrentLotID != "" }

// Snapshot is a point-in-time view of the whole herd handed to subscribers.
// Snapshots are value copies; the engine never mutates one after returning it.
type Snapshot struct {
	TakenAt time.Time   `json:"taken_at"`
	Stock   []StockView `json:"stock"`
	Lots    []Lot       `json:"lots"`
}
