// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying state store from the
// application's core logic: the task, watermark and email-log stores
// each have a durable PostgreSQL implementation and an in-memory
// implementation selected by the composition root.
package store
