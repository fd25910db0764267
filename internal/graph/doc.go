// Package graph materializes a route as an in-memory directed weighted graph
// and answers the path and availability questions asked of it.
//
// Nodes are stop IDs; every stop of the route is a node, including stops
// with no connections. Edges are connections, directed from origin to
// destination and weighted by distance. A Graph is built fresh from a
// snapshot of the store on every request and is never mutated afterwards, so
// a value can be read from multiple goroutines without locking.
//
// Shortest paths use Dijkstra's algorithm with a binary heap:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
//
// Heap entries are ordered by tentative distance and then by stop ID, and a
// predecessor is replaced only by a strictly shorter candidate. Among several
// equal-cost paths the one through the earliest finalized node wins, which
// makes results reproducible for the same input.
//
// Errors are the domain sentinels: ErrNodeNotFound for an unknown stop ID,
// ErrNoPath when the target is unreachable, and ErrValidation, ErrSelfLoop or
// ErrDuplicate when New is handed edges that violate connection invariants.
package graph
