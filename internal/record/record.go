// Package record defines the contract the engine holds against the external
// record store: per-table CRUD with simple equality/range filters. Calls are
// individually atomic but never compose into a transaction.
package record

import "context"

// Table names of the external store.
const (
	TableAnimals      = "animal"
	TableLots         = "lot"
	TableAssignments  = "assignment"
	TableWeighings    = "weighing"
	TableHealthEvents = "health_event"
	TableSuppliers    = "supplier"
	TableCarriers     = "carrier"
)

// Cond constrains a single field. Zero-value members are ignored, so a Cond
// usually carries exactly one constraint.
type Cond struct {
	Eq   any
	In   []string
	Gte  any
	Lte  any
	Null *bool
}

// Filter maps field names to conditions; conditions combine with logical AND.
// A nil or empty Filter matches every row.
type Filter map[string]Cond

// Patch is the set of field values applied by an Update.
type Patch map[string]any

// Eq matches rows whose field equals v.
func Eq(v any) Cond { return Cond{Eq: v} }

// In matches rows whose field is one of the given values.
func In(values []string) Cond { return Cond{In: values} }

// Between matches rows whose field lies in the inclusive [gte, lte] range.
// Either bound may be nil to leave that side open.
func Between(gte, lte any) Cond { return Cond{Gte: gte, Lte: lte} }

// IsNull matches rows whose field is null or absent.
func IsNull() Cond { b := true; return Cond{Null: &b} }

// NotNull matches rows whose field is present and not null.
func NotNull() Cond { b := false; return Cond{Null: &b} }

// Store is the record store adapter. List decodes matching rows into out,
// which must be a pointer to a slice. Update and Delete report how many rows
// they touched. Implementations surface store failures verbatim and never
// retry.
type Store interface {
	List(ctx context.Context, table string, filter Filter, out any) error
	Insert(ctx context.Context, table string, rows []any) error
	Update(ctx context.Context, table string, filter Filter, patch Patch) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
}
