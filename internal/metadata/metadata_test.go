package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `publications:
  aftenposten:
    display_name: Aftenposten
    city: Oslo
    region: Østlandet
    latitude: 59.9139
    longitude: 10.7522
  bergens tidende:
    display_name: Bergens Tidende
    city: Bergen
    region: Vestlandet
    latitude: 60.3913
    longitude: 5.3221
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publications.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	tbl, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	info := tbl.Lookup("aftenposten")
	assert.Equal(t, "Aftenposten", info.DisplayName)
	assert.Equal(t, "Oslo", info.City)
	assert.Equal(t, "Østlandet", info.Region)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	tbl, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)

	assert.True(t, tbl.Known("Bergens Tidende"))
	assert.Equal(t, "Vestlandet", tbl.Lookup("BERGENS TIDENDE").Region)
}

func TestLookupUnknownFallsBackToPlaceholder(t *testing.T) {
	tbl, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)

	info := tbl.Lookup("lokalavisa trysil")
	assert.Equal(t, "Lokalavisa Trysil", info.DisplayName)
	assert.Equal(t, UnknownCity, info.City)
	assert.Equal(t, UnknownRegion, info.Region)
	assert.Equal(t, DefaultLatitude, info.Latitude)
	assert.Equal(t, DefaultLongitude, info.Longitude)
	assert.False(t, tbl.Known("lokalavisa trysil"))
}

func TestLoadEmptyPath(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())

	// Still total.
	info := tbl.Lookup("vg")
	assert.Equal(t, UnknownRegion, info.Region)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeTable(t, "publications: [not, a, map"))
	assert.Error(t, err)
}
