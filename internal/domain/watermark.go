package domain

import "time"

// DefaultWatermarkScope is the logical-instance scope used when the
// deployment runs a single reconciler.
const DefaultWatermarkScope = "overdue-reconciler"

// Watermark is a persisted timestamp cursor marking how far the overdue
// reconciliation scan has progressed: all tasks created before Value
// have been reconciled. Version supports compare-and-swap advancement
// so concurrent reconciler runs cannot silently race. The value is
// monotonically non-decreasing and the reconciler is its only writer.
type Watermark struct {
	Scope   string    `json:"scope"`
	Value   time.Time `json:"value"`
	Version int64     `json:"version"`
}
