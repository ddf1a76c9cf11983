// Package queue defines message payloads exchanged over the message broker.
package queue

// ShowTimeChangedEvent is published whenever a show time's seat map changes:
// a hold was taken, confirmed, cancelled or expired. Delivery is at-most-once
// and never awaited by the mutating call; consumers refresh their view from
// the primary database.
type ShowTimeChangedEvent struct {
	ShowTimeID string `json:"show_time_id"`
	ChangedAt  string `json:"changed_at"`
}
