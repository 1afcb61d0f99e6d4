// Package realtime ingests GTFS-Realtime trip updates into a snapshot
// the routing layer can consult for per-trip delays and cancellations.
//
// The snapshot source is registered on a graph's service registry at
// build or serve time; the graph core itself never depends on it.
package realtime
