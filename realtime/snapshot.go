package realtime

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// SnapshotSource holds the most recent trip-update snapshot. Updates
// replace the snapshot wholesale under a write lock; lookups take a read
// lock, so concurrent searches can consult it freely.
type SnapshotSource struct {
	mu        sync.RWMutex
	timestamp int64
	delays    map[string]int32
	canceled  map[string]struct{}
}

// NewSnapshotSource returns an empty source.
func NewSnapshotSource() *SnapshotSource {
	return &SnapshotSource{
		delays:   map[string]int32{},
		canceled: map[string]struct{}{},
	}
}

// Update parses raw GTFS-RT protobuf bytes and applies the feed.
func (s *SnapshotSource) Update(data []byte) error {
	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(data, fm); err != nil {
		return fmt.Errorf("parse trip updates: %w", err)
	}
	return s.ApplyFeed(fm)
}

// ApplyFeed replaces the snapshot with the feed's trip updates. Feeds
// older than the current snapshot are ignored.
func (s *SnapshotSource) ApplyFeed(fm *gtfsrtpb.FeedMessage) error {
	var ts int64
	if fm.Header != nil && fm.Header.Timestamp != nil {
		ts = int64(*fm.Header.Timestamp)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts != 0 && ts < s.timestamp {
		return nil
	}
	delays := map[string]int32{}
	canceled := map[string]struct{}{}
	for _, e := range fm.Entity {
		tu := e.TripUpdate
		if tu == nil || tu.Trip == nil || tu.Trip.TripId == nil {
			continue
		}
		tripID := *tu.Trip.TripId
		if tu.Trip.ScheduleRelationship != nil &&
			*tu.Trip.ScheduleRelationship == gtfsrtpb.TripDescriptor_CANCELED {
			canceled[tripID] = struct{}{}
			continue
		}
		if tu.Delay != nil {
			delays[tripID] = *tu.Delay
			continue
		}
		// fall back to the first stop-time update carrying a delay
		for _, stu := range tu.StopTimeUpdate {
			if stu.Arrival != nil && stu.Arrival.Delay != nil {
				delays[tripID] = *stu.Arrival.Delay
				break
			}
			if stu.Departure != nil && stu.Departure.Delay != nil {
				delays[tripID] = *stu.Departure.Delay
				break
			}
		}
	}
	s.timestamp = ts
	s.delays = delays
	s.canceled = canceled
	return nil
}

// Timestamp returns the epoch seconds of the applied feed header.
func (s *SnapshotSource) Timestamp() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timestamp
}

// DelaySeconds returns the known delay for a trip.
func (s *SnapshotSource) DelaySeconds(tripID string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.delays[tripID]
	return d, ok
}

// IsCanceled reports whether the trip is canceled in the snapshot.
func (s *SnapshotSource) IsCanceled(tripID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.canceled[tripID]
	return ok
}

// Fetch downloads a GTFS-RT feed and applies it. Empty URL is a no-op,
// allowing optional feeds.
func (s *SnapshotSource) Fetch(url string) error {
	if url == "" {
		return nil
	}
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return s.Update(body)
}
