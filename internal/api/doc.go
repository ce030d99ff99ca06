// Package api handles incoming HTTP requests, routing, request
// validation, and response formatting. It adapts HTTP concerns to the
// task lifecycle services underneath.
package api
