// Package core holds the leaf types shared by the graph and its edges:
// traverse modes, the per-search routing request, and the stop-pair
// transfer rule table.
//
// Nothing in this package depends on the graph itself, so edge
// implementations and external search code can both consume it freely.
package core
