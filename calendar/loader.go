package calendar

import (
	"archive/zip"
	"encoding/csv"
	"log"
	"strings"
)

// LoadZip reads agency.txt and calendar_dates.txt from a GTFS zip and
// returns the calendar data the graph needs for feed-validity and
// timezone inference. Other files in the zip are ignored; full schedule
// import is someone else's job.
func LoadZip(path string) (*Data, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	data := NewData()
	// agency.txt first so service dates can be keyed under the feed's
	// agency when there is exactly one.
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, "agency.txt") {
			if err := data.consumeCSV(f, ""); err != nil {
				return nil, err
			}
		}
	}
	agency := ""
	if ids := agencyIDs(data); len(ids) == 1 {
		agency = ids[0]
	}
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, "calendar_dates.txt") {
			if err := data.consumeCSV(f, agency); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

func agencyIDs(d *Data) []string {
	out := make([]string, 0, len(d.timezones))
	for id := range d.timezones {
		out = append(out, id)
	}
	return out
}

func (d *Data) consumeCSV(f *zip.File, agency string) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	switch strings.ToLower(f.Name) {
	case "agency.txt":
		aID := idx("agency_id")
		aTZ := idx("agency_timezone")
		for _, row := range rec[1:] {
			id := ""
			if aID >= 0 {
				id = row[aID]
			}
			if aTZ >= 0 {
				d.SetAgencyTimezone(id, row[aTZ])
			}
		}
	case "calendar_dates.txt":
		sID := idx("service_id")
		date := idx("date")
		exc := idx("exception_type")
		for _, row := range rec[1:] {
			if sID < 0 || date < 0 {
				continue
			}
			// exception_type 2 removes service on the date
			if exc >= 0 && row[exc] == "2" {
				continue
			}
			sd, err := ParseServiceDate(row[date])
			if err != nil {
				log.Printf("calendar: skipping %s: %v", f.Name, err)
				continue
			}
			d.AddServiceDate(ServiceID{AgencyID: agency, ID: row[sID]}, sd)
		}
	}
	return nil
}
