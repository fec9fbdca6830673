// Package api serves one split tree over HTTP.
//
// The API is read-only with respect to the tree: clients ask where nodes
// are, fetch the persistent address of a node, and replay addresses or
// location chains they stored earlier to find out where that slot is now.
//
//	GET  /healthz
//	GET  /tree                  all nodes with their rectangles
//	GET  /nodes/{id}            one node
//	GET  /nodes/{id}/address    address of a node (XML, or binary with ?format=binary)
//	POST /replay                XML or binary address => placement
//	POST /locate                XML or binary location chain => placement
//	GET  /placeholders/{token}  node holding a placeholder token
//	GET  /metrics               Prometheus metrics, when enabled
//
// Errors are JSON objects carrying the error code of package errors, with the
// HTTP status derived from that code.
package api
