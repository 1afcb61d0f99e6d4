package graph

import (
	"log"
	"time"

	"github.com/theoremus-urban-solutions/transit-graph/calendar"
)

const secondsInDay = 24 * 60 * 60

type timeZoneResult struct {
	loc *time.Location
}

type calendarHolder struct {
	svc *calendar.Service
}

// UpdateFeedValidity derives the covered service window from all service
// dates across all service IDs. The feed is assumed unreliable after
// midnight at the end of the last service day. Agencies whose dates are
// all in the past are flagged with a builder annotation.
func (g *Graph) UpdateFeedValidity(data *calendar.Data) {
	now := time.Now().Unix()
	agenciesSeen := map[string]struct{}{}
	agenciesWithFutureDates := map[string]struct{}{}
	for _, sid := range data.ServiceIDs() {
		agenciesSeen[sid.AgencyID] = struct{}{}
		loc := g.locationFor(data, sid.AgencyID)
		for _, sd := range data.ServiceDatesFor(sid) {
			t := sd.Time(loc).Unix()
			if t > now {
				agenciesWithFutureDates[sid.AgencyID] = struct{}{}
			}
			u := t + secondsInDay
			g.mu.Lock()
			if t < g.serviceStarts {
				g.serviceStarts = t
			}
			if u > g.serviceEnds {
				g.serviceEnds = u
			}
			g.mu.Unlock()
		}
	}
	for agency := range agenciesSeen {
		if _, ok := agenciesWithFutureDates[agency]; !ok {
			log.Printf("%s", g.AddAnnotation(&NoFutureDates{AgencyID: agency}))
		}
	}
}

func (g *Graph) locationFor(data *calendar.Data, agencyID string) *time.Location {
	if name := data.TimezoneForAgency(agencyID); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// FeedCovers reports whether the feed has service information for the
// given epoch-seconds instant.
func (g *Graph) FeedCovers(t int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return t >= g.serviceStarts && t < g.serviceEnds
}

// FeedValidity returns the [start, end) service window in epoch seconds.
func (g *Graph) FeedValidity() (start, end int64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.serviceStarts, g.serviceEnds
}

// CalendarService returns the calendar query facade, built lazily from
// the calendar data registered on the service registry. Nil when no
// calendar data is registered.
func (g *Graph) CalendarService() *calendar.Service {
	g.calOnce.Do(func() {
		g.cal = &calendarHolder{}
		if data, ok := GetService[*calendar.Data](g); ok {
			g.cal.svc = calendar.NewService(data)
		}
	})
	return g.cal.svc
}

// TimeZone resolves one canonical timezone for the whole graph from the
// first agency's calendar data, computed once. With no agencies the
// result is UTC and a warning is logged. When agencies disagree the
// first resolved zone wins and the mismatch is logged as an error;
// callers should not assume all agencies truly share one zone.
func (g *Graph) TimeZone() *time.Location {
	g.tzOnce.Do(func() {
		g.tz = &timeZoneResult{}
		agencyIDs := g.AgencyIDs()
		if len(agencyIDs) == 0 {
			g.tz.loc = time.UTC
			log.Printf("graph: contains no agencies; request times will be interpreted as UTC")
			return
		}
		cs := g.CalendarService()
		if cs == nil {
			g.tz.loc = time.UTC
			log.Printf("graph: no calendar data registered; request times will be interpreted as UTC")
			return
		}
		for _, id := range agencyIDs {
			loc, err := cs.LocationForAgency(id)
			if err != nil {
				log.Printf("graph: cannot resolve time zone for agency %s: %v", id, err)
				continue
			}
			if g.tz.loc == nil {
				g.tz.loc = loc
			} else if g.tz.loc.String() != loc.String() {
				log.Printf("graph: agency time zone differs from graph time zone: %v", loc)
			}
		}
		if g.tz.loc == nil {
			g.tz.loc = time.UTC
		}
	})
	return g.tz.loc
}
