/*
Package graph is the routable network model underlying multi-modal trip
planning: vertices, polymorphic edges, the immutable traversal state the
search algorithm expands, and a persistent store with versioned
(de)serialization.

The search algorithm itself lives elsewhere. It holds a State at a
vertex, picks an outgoing edge, and calls Traverse; a nil result means
the edge cannot be used from that state under the bound routing request,
which is ordinary pruning and never an error.

A graph is built single-writer: vertices and edges are added, the
transfer table and calendar data are attached, and RebuildIndices is
called once the population settles. After that the graph is read
concurrently by any number of searches, none of which mutate it — each
search only grows its own private State chain. The one exception is the
temporary-edge set used for per-request origin/destination connectors,
which tolerates concurrent add/remove.
*/
package graph
