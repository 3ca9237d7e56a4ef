// Package query applies composable, AND-combined predicates over projected
// slices. The functions are pure and stateless: the same records and criteria
// always produce the same result, and inputs are never mutated.
package query

import (
	"strings"
	"time"

	"github.com/mherrera/rodeo/internal/domain/models"
)

// LotNone is the sentinel lot criterion matching animals with no active
// assignment.
const LotNone = "none"

// StockCriteria filters the projected stock view. Zero-value fields are
// skipped, not matched against the empty string.
type StockCriteria struct {
	// Search matches case-insensitively against tag number, category, lot
	// name, supplier name and carrier name.
	Search     string
	Category   string
	Condition  models.ConditionGrade
	LotID      string // lot id, or LotNone for unassigned animals
	EntryFrom  *time.Time
	EntryTo    *time.Time
	WeightMin  *float64
	WeightMax  *float64
	SupplierID string
	CarrierID  string
}

// FilterStock returns the stock views satisfying every set criterion.
func FilterStock(records []models.StockView, c StockCriteria) []models.StockView {
	out := make([]models.StockView, 0, len(records))
	for _, r := range records {
		if !matchesStock(r, c) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesStock(r models.StockView, c StockCriteria) bool {
	if !matchText(c.Search, r.TagNumber, r.Category, r.CurrentLotName, r.SupplierName, r.CarrierName) {
		return false
	}
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	if c.Condition != "" && r.Condition != c.Condition {
		return false
	}
	if c.SupplierID != "" && r.SupplierID != c.SupplierID {
		return false
	}
	if c.CarrierID != "" && r.CarrierID != c.CarrierID {
		return false
	}
	switch c.LotID {
	case "":
	case LotNone:
		if r.Assigned() {
			return false
		}
	default:
		if r.CurrentLotID != c.LotID {
			return false
		}
	}
	if !inDateRange(r.EntryDate, c.EntryFrom, c.EntryTo) {
		return false
	}
	if c.WeightMin != nil || c.WeightMax != nil {
		if r.LatestWeightKg == nil {
			return false
		}
		if !inFloatRange(*r.LatestWeightKg, c.WeightMin, c.WeightMax) {
			return false
		}
	}
	return true
}

// WeighingCriteria filters weighing lists.
type WeighingCriteria struct {
	AnimalID  string
	From      *time.Time
	To        *time.Time
	WeightMin *float64
	WeightMax *float64
}

// FilterWeighings returns the weighings satisfying every set criterion.
func FilterWeighings(records []models.Weighing, c WeighingCriteria) []models.Weighing {
	out := make([]models.Weighing, 0, len(records))
	for _, r := range records {
		if c.AnimalID != "" && r.AnimalID != c.AnimalID {
			continue
		}
		if !inDateRange(r.Date, c.From, c.To) {
			continue
		}
		if !inFloatRange(r.WeightKg, c.WeightMin, c.WeightMax) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// HealthCriteria filters health-event lists.
type HealthCriteria struct {
	AnimalID string
	Type     models.HealthEventType
	Search   string
	From     *time.Time
	To       *time.Time
}

// FilterHealthEvents returns the events satisfying every set criterion.
func FilterHealthEvents(records []models.HealthEvent, c HealthCriteria) []models.HealthEvent {
	out := make([]models.HealthEvent, 0, len(records))
	for _, r := range records {
		if c.AnimalID != "" && r.AnimalID != c.AnimalID {
			continue
		}
		if c.Type != "" && r.Type != c.Type {
			continue
		}
		if !matchText(c.Search, r.Description, r.Notes) {
			continue
		}
		if !inDateRange(r.Date, c.From, c.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchText(needle string, fields ...string) bool {
	needle = strings.TrimSpace(strings.ToLower(needle))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// inDateRange checks the inclusive [from, to] window; nil bounds are open.
func inDateRange(v time.Time, from, to *time.Time) bool {
	if from != nil && v.Before(*from) {
		return false
	}
	if to != nil && v.After(*to) {
		return false
	}
	return true
}

func inFloatRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}
