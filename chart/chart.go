// Package chart ranks the most-played songs across a channel set in a 7-day
// window and annotates each entry with its standing in the window before it.
package chart

import (
	"context"
	"sort"
	"time"

	"github.com/mboyd/playlog/data"
)

// Window is the fixed chart period. The current window is
// [anchor, anchor+Window]; the previous one is [anchor-Window, anchor].
const Window = 7 * 24 * time.Hour

// Store is the one aggregation the engine needs from the event store.
type Store interface {
	CountPlays(ctx context.Context, channels []string, start, end time.Time) ([]data.SongCount, error)
}

// Params is one chart request. It is a value: the engine never mutates it
// and holds no state between calls.
type Params struct {
	Channels []string
	Anchor   time.Time
	Limit    int
}

func (p Params) validate() error {
	if len(p.Channels) == 0 {
		return data.MalformedChannelList()
	}
	for _, channel := range p.Channels {
		if channel == "" {
			return data.MalformedChannelList()
		}
	}
	if p.Limit < 0 {
		return data.MalformedLimit()
	}
	return nil
}

// Top computes the chart for p: the Limit most-played songs in the current
// window, in deterministic order, each annotated with its plays and rank in
// the previous window. A song absent from the previous window gets zero
// previous plays and a nil previous rank.
//
// The previous window is aggregated in full, not cut at Limit: a song's
// previous rank is its position among everything that aired then.
func Top(ctx context.Context, store Store, p Params) ([]data.ChartEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	current, err := store.CountPlays(ctx, p.Channels, p.Anchor, p.Anchor.Add(Window))
	if err != nil {
		return nil, err
	}
	previous, err := store.CountPlays(ctx, p.Channels, p.Anchor.Add(-Window), p.Anchor)
	if err != nil {
		return nil, err
	}

	sortCounts(current)
	sortCounts(previous)

	// One pass over the previous window builds the history index; each
	// chart entry then resolves its previous plays and rank in constant
	// time.
	type key struct{ title, performer string }
	type history struct {
		plays int64
		rank  int
	}
	past := make(map[key]history, len(previous))
	for rank, row := range previous {
		past[key{row.Title, row.Performer}] = history{plays: row.Plays, rank: rank}
	}

	limit := p.Limit
	if limit > len(current) {
		limit = len(current)
	}

	entries := make([]data.ChartEntry, 0, limit)
	for rank, row := range current[:limit] {
		entry := data.ChartEntry{
			Title:     row.Title,
			Performer: row.Performer,
			Plays:     row.Plays,
			Rank:      rank,
		}
		if h, ok := past[key{row.Title, row.Performer}]; ok {
			prevRank := h.rank
			entry.PreviousPlays = h.plays
			entry.PreviousRank = &prevRank
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// sortCounts orders a window's aggregation: plays descending, ties broken by
// title then performer ascending. The tie-break makes chart output
// reproducible for a fixed snapshot.
func sortCounts(counts []data.SongCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Plays != counts[j].Plays {
			return counts[i].Plays > counts[j].Plays
		}
		if counts[i].Title != counts[j].Title {
			return counts[i].Title < counts[j].Title
		}
		return counts[i].Performer < counts[j].Performer
	})
}
