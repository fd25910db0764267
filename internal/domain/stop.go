package domain

import "time"

// StopNameMaxLen mirrors the column check on stops.name.
const StopNameMaxLen = 100

// Stop is a node of a route's graph.
type Stop struct {
	ID          int64     `json:"id"`
	RouteID     int64     `json:"route_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
