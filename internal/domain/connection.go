package domain

// Connection is a directed, weighted edge between two stops of the same route.
// It has no identity of its own: the ordered pair (OriginID, DestinationID)
// is the key, and the reverse pair is a different connection.
//
// OriginName and DestinationName are filled by list queries for display and
// are ignored on writes.
type Connection struct {
	RouteID         int64   `json:"route_id"`
	OriginID        int64   `json:"origin_stop_id"`
	DestinationID   int64   `json:"destination_stop_id"`
	Distance        float64 `json:"distance"`
	OriginName      string  `json:"origin_name,omitempty"`
	DestinationName string  `json:"destination_name,omitempty"`
}

// Path is the result of a shortest-path query: the stop IDs visited in order,
// source first, and the sum of the edge distances along them.
type Path struct {
	Nodes         []int64 `json:"nodes"`
	TotalDistance float64 `json:"total_distance"`
}
