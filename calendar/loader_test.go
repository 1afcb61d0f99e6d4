package calendar

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeedZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtfs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoadZip(t *testing.T) {
	path := writeFeedZip(t, map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"BGSOF,Sofia Urban Mobility,https://example.org,Europe/Sofia\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"weekday,20260901,1\n" +
			"weekday,20260902,1\n" +
			"weekday,20260903,2\n" + // removed service date
			"weekend,20260905,1\n",
		"stops.txt": "stop_id,stop_name\nS1,Somewhere\n", // ignored
	})

	data, err := LoadZip(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Sofia", data.TimezoneForAgency("BGSOF"))

	// a single agency claims all service IDs
	ids := data.ServiceIDs()
	require.Len(t, ids, 2)
	assert.Equal(t, ServiceID{AgencyID: "BGSOF", ID: "weekday"}, ids[0])
	assert.Equal(t, ServiceID{AgencyID: "BGSOF", ID: "weekend"}, ids[1])

	dates := data.ServiceDatesFor(ids[0])
	require.Len(t, dates, 2, "exception_type 2 rows are service removals")
	assert.Equal(t, "20260901", dates[0].String())
	assert.Equal(t, "20260902", dates[1].String())
}

func TestLoadZip_MultipleAgencies(t *testing.T) {
	path := writeFeedZip(t, map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"A1,First,https://example.org,Europe/Sofia\n" +
			"A2,Second,https://example.org,Europe/Athens\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"s1,20260901,1\n",
	})

	data, err := LoadZip(path)
	require.NoError(t, err)

	// with several agencies a service cannot be attributed to one
	ids := data.ServiceIDs()
	require.Len(t, ids, 1)
	assert.Equal(t, "", ids[0].AgencyID)
	assert.Equal(t, "Europe/Athens", data.TimezoneForAgency("A2"))
}

func TestLoadZip_SkipsMalformedDates(t *testing.T) {
	path := writeFeedZip(t, map[string]string{
		"agency.txt": "agency_id,agency_timezone\nBGSOF,Europe/Sofia\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"s1,2026-09-01,1\n" + // wrong format
			"s1,20260902,1\n",
	})

	data, err := LoadZip(path)
	require.NoError(t, err)
	dates := data.ServiceDatesFor(ServiceID{AgencyID: "BGSOF", ID: "s1"})
	require.Len(t, dates, 1)
	assert.Equal(t, "20260902", dates[0].String())
}

func TestLoadZip_MissingFile(t *testing.T) {
	_, err := LoadZip(filepath.Join(t.TempDir(), "nope.zip"))
	assert.Error(t, err)
}
