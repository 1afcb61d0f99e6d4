package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-graph/calendar"
)

func serviceDate(t *testing.T, d time.Time) calendar.ServiceDate {
	t.Helper()
	return calendar.ServiceDate{Year: d.Year(), Month: int(d.Month()), Day: d.Day()}
}

func TestUpdateFeedValidity_Window(t *testing.T) {
	g := New()
	data := calendar.NewData()
	data.SetAgencyTimezone("BGSOF", "UTC")

	first := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	sid := calendar.ServiceID{AgencyID: "BGSOF", ID: "weekday"}
	data.AddServiceDate(sid, serviceDate(t, first))
	data.AddServiceDate(sid, serviceDate(t, last))

	g.UpdateFeedValidity(data)

	start, end := g.FeedValidity()
	assert.Equal(t, first.Unix(), start)
	assert.Equal(t, last.Unix()+secondsInDay, end, "feed stays valid through the last service day")

	assert.True(t, g.FeedCovers(first.Unix()))
	assert.True(t, g.FeedCovers(last.Unix()+secondsInDay-1))
	assert.False(t, g.FeedCovers(first.Unix()-1))
	assert.False(t, g.FeedCovers(last.Unix()+secondsInDay))
}

func TestUpdateFeedValidity_FlagsExpiredAgencies(t *testing.T) {
	g := New()
	data := calendar.NewData()
	past := calendar.ServiceID{AgencyID: "OLD", ID: "s1"}
	data.AddServiceDate(past, calendar.ServiceDate{Year: 2019, Month: 1, Day: 1})
	future := calendar.ServiceID{AgencyID: "NEW", ID: "s2"}
	data.AddServiceDate(future, serviceDate(t, time.Now().AddDate(1, 0, 0)))

	g.UpdateFeedValidity(data)

	require.Len(t, g.Annotations(), 1)
	ann, ok := g.Annotations()[0].(*NoFutureDates)
	require.True(t, ok)
	assert.Equal(t, "OLD", ann.AgencyID)
}

func TestTimeZone_NoAgenciesFallsBackToUTC(t *testing.T) {
	g := New()
	assert.Same(t, time.UTC, g.TimeZone())
}

func TestTimeZone_NoCalendarDataFallsBackToUTC(t *testing.T) {
	g := New()
	g.AddAgency(Agency{ID: "BGSOF"})
	assert.Same(t, time.UTC, g.TimeZone())
}

func TestTimeZone_FirstAgencyWins(t *testing.T) {
	g := New()
	g.AddAgency(Agency{ID: "BGSOF"})
	g.AddAgency(Agency{ID: "OTHER"})
	data := calendar.NewData()
	data.SetAgencyTimezone("BGSOF", "UTC")
	data.SetAgencyTimezone("OTHER", "Local")
	PutService(g, data)

	// the conflicting second zone is logged, not adopted
	assert.Same(t, time.UTC, g.TimeZone())
	// cached
	assert.Same(t, time.UTC, g.TimeZone())
}

func TestTimeZone_SkipsUnresolvableAgency(t *testing.T) {
	g := New()
	g.AddAgency(Agency{ID: "GHOST"})
	g.AddAgency(Agency{ID: "BGSOF"})
	data := calendar.NewData()
	// GHOST has no timezone entry at all
	data.SetAgencyTimezone("BGSOF", "UTC")
	PutService(g, data)

	assert.Same(t, time.UTC, g.TimeZone())
}

func TestCalendarService(t *testing.T) {
	g := New()
	assert.Nil(t, g.CalendarService(), "no calendar data registered")

	g2 := New()
	data := calendar.NewData()
	PutService(g2, data)
	svc := g2.CalendarService()
	require.NotNil(t, svc)
	assert.Same(t, data, svc.Data())
	assert.Same(t, svc, g2.CalendarService(), "built once")
}
