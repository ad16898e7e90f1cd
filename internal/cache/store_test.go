package cache

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/archive-trends/pkg/types"
)

func testMatrix() *types.CountMatrix {
	return &types.CountMatrix{
		Years: []int{2019, 2020},
		Rows: []types.MatrixRow{
			{Title: "Aftenposten", Counts: []int{2, 3}, Total: 5},
			{Title: "Bergens Tidende", Counts: []int{1, 0}, Total: 1},
		},
		YearTotals: []int{3, 3},
		GrandTotal: 6,
	}
}

func testStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(types.CacheConfig{Dir: t.TempDir(), TTL: ttl}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPivotRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	m := testMatrix()
	require.NoError(t, writePivot(&buf, m))

	got, err := readPivot(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestReadPivotToleratesFloatTotals(t *testing.T) {
	in := strings.Join([]string{
		",2019,2020,TOTAL",
		"Aftenposten,2,3,5.0",
		"TOTAL,2.0,3.0,5.0",
	}, "\n")

	m, err := readPivot(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 5, m.GrandTotal)
	assert.Equal(t, []int{2, 3}, m.YearTotals)
	assert.Equal(t, 5, m.Rows[0].Total)
}

func TestReadPivotRejectsCorruptArtifact(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no margin row", ",2019,TOTAL\nA,1,1"},
		{"no margin column", ",2019,2020\nA,1,1\nTOTAL,1,1"},
		{"garbage cell", ",2019,TOTAL\nA,x,1\nTOTAL,1,1"},
		{"truncated row", ",2019,2020,TOTAL\nA,1\nTOTAL,1,1,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readPivot(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestStoreLookupRoundTrip(t *testing.T) {
	s := testStore(t, 0)
	m := testMatrix()
	key := Key("historiske spel", "exact_phrase", 2019, 2020)

	err := s.Put(Entry{Key: key, Term: "historiske spel", Mode: "exact_phrase", FromYear: 2019, ToYear: 2020}, m, nil)
	require.NoError(t, err)

	got, ok := s.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestLookupMissingKey(t *testing.T) {
	s := testStore(t, 0)
	_, ok := s.Lookup("absent_freetext_2015_2025")
	assert.False(t, ok)
}

func TestLookupCorruptArtifactIsMiss(t *testing.T) {
	s := testStore(t, 0)
	key := "k_freetext_2015_2025"
	require.NoError(t, s.Put(Entry{Key: key, Term: "k", Mode: "freetext", FromYear: 2015, ToYear: 2025}, testMatrix(), nil))

	// Truncate the artifact behind the store's back.
	require.NoError(t, os.WriteFile(s.PivotPath(key), []byte("garbage"), 0o644))

	_, ok := s.Lookup(key)
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	s := testStore(t, 0)
	key := "k_freetext_2015_2025"
	e := Entry{Key: key, Term: "k", Mode: "freetext", FromYear: 2015, ToYear: 2025}

	require.NoError(t, s.Put(e, testMatrix(), nil))

	replacement := &types.CountMatrix{
		Years:      []int{2021},
		Rows:       []types.MatrixRow{{Title: "VG", Counts: []int{7}, Total: 7}},
		YearTotals: []int{7},
		GrandTotal: 7,
	}
	require.NoError(t, s.Put(e, replacement, nil))

	got, ok := s.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, replacement, got)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTTLExpiry(t *testing.T) {
	s := testStore(t, time.Hour)
	key := "k_freetext_2015_2025"
	stale := Entry{
		Key: key, Term: "k", Mode: "freetext", FromYear: 2015, ToYear: 2025,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, s.Put(stale, testMatrix(), nil))

	_, ok := s.Lookup(key)
	assert.False(t, ok, "expired entry must be a miss")

	// Eviction removed the artifact too.
	_, err := os.Stat(s.PivotPath(key))
	assert.True(t, os.IsNotExist(err))
}

func TestTTLZeroNeverExpires(t *testing.T) {
	s := testStore(t, 0)
	key := "k_freetext_2015_2025"
	old := Entry{
		Key: key, Term: "k", Mode: "freetext", FromYear: 2015, ToYear: 2025,
		CreatedAt: time.Now().Add(-24 * 365 * time.Hour),
	}
	require.NoError(t, s.Put(old, testMatrix(), nil))

	_, ok := s.Lookup(key)
	assert.True(t, ok)
}

func TestInvalidateAndClear(t *testing.T) {
	s := testStore(t, 0)
	for _, key := range []string{"a_freetext_2015_2025", "b_freetext_2015_2025"} {
		require.NoError(t, s.Put(Entry{Key: key, Term: key, Mode: "freetext", FromYear: 2015, ToYear: 2025}, testMatrix(), nil))
	}

	require.NoError(t, s.Invalidate("a_freetext_2015_2025"))
	_, ok := s.Lookup("a_freetext_2015_2025")
	assert.False(t, ok)

	// Invalidating an absent key is fine.
	require.NoError(t, s.Invalidate("never_cached"))

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDetailArtifactSortedByYear(t *testing.T) {
	s := testStore(t, 0)
	key := "k_freetext_2015_2025"
	hits := []types.Hit{
		{Identifier: "u3", PublicationTitle: "C", Year: 2021},
		{Identifier: "u1", PublicationTitle: "A", Year: 2019},
		{Identifier: "u2", PublicationTitle: "B", Year: 2020},
	}
	require.NoError(t, s.Put(Entry{Key: key, Term: "k", Mode: "freetext", FromYear: 2019, ToYear: 2021}, testMatrix(), hits))

	f, err := os.Open(filepath.Join(s.dir, key+"_detail.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"year", "title", "urn", "timestamp"}, records[0])
	assert.Equal(t, "2019", records[1][0])
	assert.Equal(t, "2020", records[2][0])
	assert.Equal(t, "2021", records[3][0])
}
