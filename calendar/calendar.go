package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ServiceID identifies a service schedule within an agency.
type ServiceID struct {
	AgencyID string
	ID       string
}

func (s ServiceID) String() string { return s.AgencyID + "_" + s.ID }

// ServiceDate is a calendar day in an agency's local timezone.
type ServiceDate struct {
	Year  int
	Month int
	Day   int
}

// ParseServiceDate parses the GTFS YYYYMMDD form.
func ParseServiceDate(s string) (ServiceDate, error) {
	if len(s) != 8 {
		return ServiceDate{}, fmt.Errorf("bad service date %q", s)
	}
	y, err := strconv.Atoi(s[0:4])
	if err != nil {
		return ServiceDate{}, fmt.Errorf("bad service date %q", s)
	}
	m, err := strconv.Atoi(s[4:6])
	if err != nil || m < 1 || m > 12 {
		return ServiceDate{}, fmt.Errorf("bad service date %q", s)
	}
	d, err := strconv.Atoi(s[6:8])
	if err != nil || d < 1 || d > 31 {
		return ServiceDate{}, fmt.Errorf("bad service date %q", s)
	}
	return ServiceDate{Year: y, Month: m, Day: d}, nil
}

// Time returns midnight at the start of the service date in loc.
func (d ServiceDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

func (d ServiceDate) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Data is the build-time service calendar: active dates per service ID
// plus each agency's timezone. It is written while the graph is built and
// read-only afterwards.
type Data struct {
	serviceDates map[ServiceID][]ServiceDate
	timezones    map[string]string
}

// NewData returns empty calendar data.
func NewData() *Data {
	return &Data{
		serviceDates: map[ServiceID][]ServiceDate{},
		timezones:    map[string]string{},
	}
}

// AddServiceDate marks sd as an active date for the service.
func (d *Data) AddServiceDate(id ServiceID, sd ServiceDate) {
	d.serviceDates[id] = append(d.serviceDates[id], sd)
}

// SetAgencyTimezone records the IANA timezone name for an agency.
func (d *Data) SetAgencyTimezone(agencyID, tz string) {
	d.timezones[agencyID] = tz
}

// ServiceIDs returns all known service IDs, sorted for deterministic
// iteration.
func (d *Data) ServiceIDs() []ServiceID {
	out := make([]ServiceID, 0, len(d.serviceDates))
	for id := range d.serviceDates {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AgencyID != out[j].AgencyID {
			return out[i].AgencyID < out[j].AgencyID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ServiceDatesFor returns the active dates for a service ID.
func (d *Data) ServiceDatesFor(id ServiceID) []ServiceDate {
	return d.serviceDates[id]
}

// TimezoneForAgency returns the agency's IANA timezone name, or "" when
// unknown.
func (d *Data) TimezoneForAgency(agencyID string) string {
	return d.timezones[agencyID]
}

// Service is the query facade the graph hands to search-time callers. It
// resolves timezones once and caches the *time.Location values.
type Service struct {
	data      *Data
	locations map[string]*time.Location
}

// NewService wraps calendar data in a query facade.
func NewService(data *Data) *Service {
	return &Service{data: data, locations: map[string]*time.Location{}}
}

// Data returns the underlying calendar data.
func (s *Service) Data() *Data { return s.data }

// LocationForAgency resolves the agency's timezone to a *time.Location.
func (s *Service) LocationForAgency(agencyID string) (*time.Location, error) {
	if loc, ok := s.locations[agencyID]; ok {
		return loc, nil
	}
	name := s.data.TimezoneForAgency(agencyID)
	if name == "" {
		return nil, fmt.Errorf("no timezone recorded for agency %q", agencyID)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("agency %q timezone %q: %w", agencyID, name, err)
	}
	s.locations[agencyID] = loc
	return loc, nil
}
