package chart_test

import (
	"context"
	"testing"
	"time"

	"github.com/mboyd/playlog/chart"
	"github.com/mboyd/playlog/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore answers CountPlays from two canned windows keyed on the query
// start, and records the windows it was asked for.
type fakeStore struct {
	anchor   time.Time
	current  []data.SongCount
	previous []data.SongCount

	queried [][2]time.Time
}

func (s *fakeStore) CountPlays(ctx context.Context, channels []string, start, end time.Time) ([]data.SongCount, error) {
	s.queried = append(s.queried, [2]time.Time{start, end})
	if start.Equal(s.anchor) {
		return append([]data.SongCount{}, s.current...), nil
	}
	return append([]data.SongCount{}, s.previous...), nil
}

var anchor = time.Date(2014, 1, 8, 0, 0, 0, 0, time.UTC)

func params(limit int) chart.Params {
	return chart.Params{
		Channels: []string{"Channel1", "Channel2"},
		Anchor:   anchor,
		Limit:    limit,
	}
}

func TestWindowDerivation(t *testing.T) {
	store := &fakeStore{anchor: anchor}
	_, err := chart.Top(context.Background(), store, params(10))
	require.NoError(t, err)

	require.Len(t, store.queried, 2)
	assert.Equal(t, anchor, store.queried[0][0])
	assert.Equal(t, anchor.Add(chart.Window), store.queried[0][1])
	assert.Equal(t, anchor.Add(-chart.Window), store.queried[1][0])
	assert.Equal(t, anchor, store.queried[1][1])
}

func TestRankAnnotations(t *testing.T) {
	store := &fakeStore{
		anchor: anchor,
		current: []data.SongCount{
			{Title: "Song1", Performer: "Performer1", Plays: 3},
			{Title: "Song2", Performer: "Performer2", Plays: 2},
		},
		previous: []data.SongCount{
			{Title: "Song2", Performer: "Performer2", Plays: 4},
			{Title: "Song1", Performer: "Performer1", Plays: 1},
		},
	}

	entries, err := chart.Top(context.Background(), store, params(10))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Song1", entries[0].Title)
	assert.Equal(t, 0, entries[0].Rank)
	assert.Equal(t, int64(1), entries[0].PreviousPlays)
	require.NotNil(t, entries[0].PreviousRank)
	assert.Equal(t, 1, *entries[0].PreviousRank)

	assert.Equal(t, "Song2", entries[1].Title)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, int64(4), entries[1].PreviousPlays)
	require.NotNil(t, entries[1].PreviousRank)
	assert.Equal(t, 0, *entries[1].PreviousRank)
}

func TestNoPreviousRankIsNil(t *testing.T) {
	store := &fakeStore{
		anchor: anchor,
		current: []data.SongCount{
			{Title: "Söng3", Performer: "Pêrformer3", Plays: 5},
		},
	}

	entries, err := chart.Top(context.Background(), store, params(10))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, int64(0), entries[0].PreviousPlays)
	assert.Nil(t, entries[0].PreviousRank)
}

func TestDeterministicTieBreak(t *testing.T) {
	// Four songs tied on plays, fed in scrambled order. Two share a title
	// under different performers.
	scrambled := []data.SongCount{
		{Title: "Bravo", Performer: "Zed", Plays: 2},
		{Title: "Alpha", Performer: "Mia", Plays: 2},
		{Title: "Bravo", Performer: "Ann", Plays: 2},
		{Title: "Delta", Performer: "Kim", Plays: 3},
	}
	store := &fakeStore{anchor: anchor, current: scrambled}

	first, err := chart.Top(context.Background(), store, params(10))
	require.NoError(t, err)
	second, err := chart.Top(context.Background(), store, params(10))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	titles := make([]string, len(first))
	for i, entry := range first {
		titles[i] = entry.Title + "/" + entry.Performer
	}
	assert.Equal(t, []string{"Delta/Kim", "Alpha/Mia", "Bravo/Ann", "Bravo/Zed"}, titles)
}

func TestLimitBoundaries(t *testing.T) {
	store := &fakeStore{
		anchor: anchor,
		current: []data.SongCount{
			{Title: "Song1", Performer: "Performer1", Plays: 3},
			{Title: "Song2", Performer: "Performer2", Plays: 2},
		},
	}

	entries, err := chart.Top(context.Background(), store, params(0))
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = chart.Top(context.Background(), store, params(100))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = chart.Top(context.Background(), store, params(1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Song1", entries[0].Title)
}

func TestParamValidation(t *testing.T) {
	store := &fakeStore{anchor: anchor}

	_, err := chart.Top(context.Background(), store, chart.Params{
		Channels: nil, Anchor: anchor, Limit: 10,
	})
	assert.True(t, data.HasCode(err, data.ErrCodeInvalidQuery))

	_, err = chart.Top(context.Background(), store, chart.Params{
		Channels: []string{"Channel1", ""}, Anchor: anchor, Limit: 10,
	})
	assert.True(t, data.HasCode(err, data.ErrCodeInvalidQuery))

	_, err = chart.Top(context.Background(), store, chart.Params{
		Channels: []string{"Channel1"}, Anchor: anchor, Limit: -1,
	})
	assert.True(t, data.HasCode(err, data.ErrCodeInvalidQuery))

	// Validation failures never reach the store.
	assert.Empty(t, store.queried)
}
