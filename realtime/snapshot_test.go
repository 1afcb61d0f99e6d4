package realtime

import (
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func feedMessage(ts uint64, entities ...*gtfsrtpb.FeedEntity) *gtfsrtpb.FeedMessage {
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(ts),
		},
		Entity: entities,
	}
}

func tripUpdate(id, tripID string, mutate func(*gtfsrtpb.TripUpdate)) *gtfsrtpb.FeedEntity {
	tu := &gtfsrtpb.TripUpdate{
		Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)},
	}
	if mutate != nil {
		mutate(tu)
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(id), TripUpdate: tu}
}

func TestSnapshot_ApplyFeed(t *testing.T) {
	src := NewSnapshotSource()

	fm := feedMessage(1000,
		tripUpdate("1", "trip_late", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(240)
		}),
		tripUpdate("2", "trip_canceled", func(tu *gtfsrtpb.TripUpdate) {
			rel := gtfsrtpb.TripDescriptor_CANCELED
			tu.Trip.ScheduleRelationship = &rel
		}),
		tripUpdate("3", "trip_stu_delay", func(tu *gtfsrtpb.TripUpdate) {
			tu.StopTimeUpdate = []*gtfsrtpb.TripUpdate_StopTimeUpdate{{
				Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(90)},
			}}
		}),
	)
	require.NoError(t, src.ApplyFeed(fm))

	assert.Equal(t, int64(1000), src.Timestamp())

	d, ok := src.DelaySeconds("trip_late")
	require.True(t, ok)
	assert.Equal(t, int32(240), d)

	assert.True(t, src.IsCanceled("trip_canceled"))
	_, ok = src.DelaySeconds("trip_canceled")
	assert.False(t, ok, "canceled trips carry no delay")

	d, ok = src.DelaySeconds("trip_stu_delay")
	require.True(t, ok)
	assert.Equal(t, int32(90), d, "falls back to the first stop-time update delay")

	_, ok = src.DelaySeconds("trip_unknown")
	assert.False(t, ok)
}

func TestSnapshot_StaleFeedIgnored(t *testing.T) {
	src := NewSnapshotSource()
	require.NoError(t, src.ApplyFeed(feedMessage(2000,
		tripUpdate("1", "trip_a", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(60)
		}))))

	// an older feed must not clobber the snapshot
	require.NoError(t, src.ApplyFeed(feedMessage(1500,
		tripUpdate("1", "trip_b", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(999)
		}))))

	assert.Equal(t, int64(2000), src.Timestamp())
	_, ok := src.DelaySeconds("trip_b")
	assert.False(t, ok)
	d, _ := src.DelaySeconds("trip_a")
	assert.Equal(t, int32(60), d)
}

func TestSnapshot_NewerFeedReplacesWholesale(t *testing.T) {
	src := NewSnapshotSource()
	require.NoError(t, src.ApplyFeed(feedMessage(2000,
		tripUpdate("1", "trip_a", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(60)
		}))))
	require.NoError(t, src.ApplyFeed(feedMessage(2100,
		tripUpdate("1", "trip_b", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(30)
		}))))

	_, ok := src.DelaySeconds("trip_a")
	assert.False(t, ok, "old snapshot entries do not linger")
	d, ok := src.DelaySeconds("trip_b")
	require.True(t, ok)
	assert.Equal(t, int32(30), d)
}

func TestSnapshot_UpdateFromWire(t *testing.T) {
	fm := feedMessage(3000,
		tripUpdate("1", "trip_a", func(tu *gtfsrtpb.TripUpdate) {
			tu.Delay = proto.Int32(15)
		}))
	data, err := proto.Marshal(fm)
	require.NoError(t, err)

	src := NewSnapshotSource()
	require.NoError(t, src.Update(data))
	d, ok := src.DelaySeconds("trip_a")
	require.True(t, ok)
	assert.Equal(t, int32(15), d)

	assert.Error(t, src.Update([]byte("definitely not protobuf")))
}
