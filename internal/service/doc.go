// Package service contains the application-level use cases of the task
// tracker. It orchestrates domain objects, the stores defined in
// internal/store, and the event emitter to implement task lifecycle
// operations; the notifier, reconciler, and ingest subpackages build on
// the same stores for their respective pipelines.
//
// Services receive dependencies through constructor injection and
// return sentinel-wrapped errors the API layer maps to HTTP status
// codes.
package service
