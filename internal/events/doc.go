// Package events defines the task lifecycle event contract: the
// task-saved event emitted after every create or reassignment, the
// emitter interface publishers use, and the handler interface consumers
// implement. Delivery is at-least-once with no cross-task ordering.
package events
