// Package data holds the value objects shared between the store, the chart
// engine, and the HTTP surface.
package data

import "time"

// Channels are identified by name. A channel is created the first time a
// caller references its name and is never mutated after that.
type Channel struct {
	ID   int64
	Name string
}

// Performers are identified by name, same lifecycle as channels.
type Performer struct {
	ID   int64
	Name string
}

// Songs are identified by (title, performer): the same title may exist under
// any number of performers. The performer is a non-owning reference.
type Song struct {
	ID          int64
	Title       string
	PerformerID int64
}

// Play records one broadcast event: a song aired on a channel during
// [Start, End]. (SongID, ChannelID, Start) is the natural key; the song id
// subsumes the performer, so a play carries no performer of its own.
type Play struct {
	ID        int64
	SongID    int64
	ChannelID int64
	Start     time.Time `gorm:"column:start_at"`
	End       time.Time `gorm:"column:end_at"`
}

// SongPlay is one row of a by-song listing: where and when the song aired.
type SongPlay struct {
	Channel string
	Start   time.Time `gorm:"column:start_at"`
	End     time.Time `gorm:"column:end_at"`
}

// ChannelPlay is one row of a by-channel listing: what aired and when.
type ChannelPlay struct {
	Title     string
	Performer string
	Start     time.Time `gorm:"column:start_at"`
	End       time.Time `gorm:"column:end_at"`
}

// SongCount is one row of a per-song play-count aggregation over a window.
type SongCount struct {
	Title     string
	Performer string
	Plays     int64
}

// ChartEntry is one row of a top chart. PreviousRank is nil for a song with
// no plays in the preceding window: a song that never charted has no rank,
// which is not the same thing as rank zero.
type ChartEntry struct {
	Title         string `json:"title"`
	Performer     string `json:"performer"`
	Plays         int64  `json:"plays"`
	PreviousPlays int64  `json:"previous_plays"`
	Rank          int    `json:"rank"`
	PreviousRank  *int   `json:"previous_rank"`
}
