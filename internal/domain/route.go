// Package domain contains the core data types for the route graph.
// This package has no database or transport dependencies and is imported by
// every other internal package (repo, graph, service).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Route bounds enforced on create.
const (
	RouteNameMinLen        = 2
	RouteNameMaxLen        = 100
	RouteDescriptionMaxLen = 1000
)

// Route is a named graph of stops and connections owned by a single user.
// OwnerID is the identifier issued by the external user directory; nothing in
// this module dereferences it beyond equality checks.
type Route struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"` // empty when not provided
	CreatedAt   time.Time `json:"created_at"`
}

// RouteStats summarises the routes of a single owner.
type RouteStats struct {
	Total     int `json:"total"`
	LastWeek  int `json:"last_week"`
	LastMonth int `json:"last_month"`
}
