package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

func TestStore_Empty(t *testing.T) {
	st := New()
	assert.Equal(t, 0, st.Len())
	assert.Empty(t, st.Snapshot())

	_, err := st.Record(0)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
}

func TestStore_ReplaceAndRecord(t *testing.T) {
	st := New()
	st.Replace([]types.Record{
		{RepoName: "a", Path: "a.py", Size: 10},
		{RepoName: "b", Path: "b.py", Size: 20},
	})

	assert.Equal(t, 2, st.Len())

	rec, err := st.Record(1)
	require.NoError(t, err)
	assert.Equal(t, "b", rec.RepoName)

	_, err = st.Record(-1)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
	_, err = st.Record(2)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
}

func TestStore_ReplaceSwapsWholeSet(t *testing.T) {
	st := New()
	st.Replace([]types.Record{{RepoName: "old"}})
	old := st.Snapshot()

	st.Replace([]types.Record{{RepoName: "new1"}, {RepoName: "new2"}})

	assert.Equal(t, 2, st.Len())
	assert.Equal(t, "old", old[0].RepoName, "prior snapshot is unaffected")
}

func TestStatistics(t *testing.T) {
	st := New()
	st.Replace([]types.Record{
		{Path: "a.py", Size: 100, License: "MIT"},
		{Path: "b.py", Size: 300, License: "MIT"},
		{Path: "c.txt", Size: 200, License: "Apache-2.0"},
		{Path: "no_ext", Size: 0, License: ""},
	})

	stats := st.Statistics()
	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, int64(600), stats.TotalBytes)
	assert.Equal(t, int64(150), stats.AverageBytes)

	require.NotEmpty(t, stats.Licenses)
	assert.Equal(t, CountedKey{Key: "MIT", Count: 2}, stats.Licenses[0])
	assert.Contains(t, stats.Licenses, CountedKey{Key: "unknown", Count: 1})

	assert.Equal(t, CountedKey{Key: ".py", Count: 2}, stats.Extensions[0])
	assert.Contains(t, stats.Extensions, CountedKey{Key: "no extension", Count: 1})
}

func TestStatistics_Empty(t *testing.T) {
	stats := New().Statistics()
	assert.Equal(t, 0, stats.TotalRecords)
	assert.Equal(t, int64(0), stats.AverageBytes)
	assert.Empty(t, stats.Licenses)
}
