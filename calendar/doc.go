// Package calendar models transit service calendar data: which dates each
// service ID runs, and which timezone each agency schedules in.
//
// The graph uses this data to infer its feed validity window and its
// canonical timezone. Data can be populated directly by a graph builder
// or loaded from the calendar files of a GTFS zip.
package calendar
