package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mboyd/playlog/data"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPlay stores one broadcast event. It never creates catalog entries:
// callers resolve the song and channel first, and a reference to an entity
// that does not exist is a validation failure.
//
// RecordPlay is idempotent on (song, channel, start). Replaying an event
// with that key returns the stored row untouched, even if the submitted end
// differs.
func (db *DB) RecordPlay(ctx context.Context, title, performerName, channelName string, start, end time.Time) (*data.Play, error) {
	if end.Before(start) {
		return nil, data.Validation("play interval ends before it starts")
	}

	song, err := db.findSong(ctx, title, performerName)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, data.Validation(fmt.Sprintf("unknown song '%s' by '%s'", title, performerName))
	}

	channel, err := db.findChannel(ctx, channelName)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, data.Validation(fmt.Sprintf("unknown channel '%s'", channelName))
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&data.Play{
			SongID:    song.ID,
			ChannelID: channel.ID,
			Start:     start,
			End:       end,
		}).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error inserting play of '%s' on '%s': %w", title, channelName, err))
	}

	var play data.Play
	if err := db.WithContext(ctx).
		Where("song_id = ? and channel_id = ? and start_at = ?", song.ID, channel.ID, start).
		First(&play).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching play of '%s' on '%s': %w", title, channelName, err))
	}

	return &play, nil
}

// PlaysBySong lists the recorded airings of one song whose interval lies
// entirely within [start, end]. A play that merely overlaps the window does
// not qualify. Rows are ordered by start, then id, so a fixed snapshot
// always lists in the same order. An unknown song is a not-found failure; a
// known song with no qualifying plays is an empty success.
func (db *DB) PlaysBySong(ctx context.Context, title, performerName string, start, end time.Time) ([]data.SongPlay, error) {
	song, err := db.findSong(ctx, title, performerName)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, data.NotFound(fmt.Sprintf("no song '%s' by '%s'", title, performerName))
	}

	plays := []data.SongPlay{}
	if err := db.WithContext(ctx).
		Table("plays").
		Joins("join channels on channels.id = plays.channel_id").
		Where("plays.song_id = ?", song.ID).
		Where("plays.start_at >= ? and plays.end_at <= ?", start, end).
		Order("plays.start_at asc, plays.id asc").
		Select("channels.name as channel", "plays.start_at", "plays.end_at").
		Scan(&plays).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error listing plays of '%s': %w", title, err))
	}

	return plays, nil
}

// PlaysByChannel lists everything one channel aired entirely within
// [start, end], with the same containment, ordering, and not-found semantics
// as PlaysBySong.
func (db *DB) PlaysByChannel(ctx context.Context, channelName string, start, end time.Time) ([]data.ChannelPlay, error) {
	channel, err := db.findChannel(ctx, channelName)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, data.NotFound(fmt.Sprintf("no channel '%s'", channelName))
	}

	plays := []data.ChannelPlay{}
	if err := db.WithContext(ctx).
		Table("plays").
		Joins("join songs on songs.id = plays.song_id").
		Joins("join performers on performers.id = songs.performer_id").
		Where("plays.channel_id = ?", channel.ID).
		Where("plays.start_at >= ? and plays.end_at <= ?", start, end).
		Order("plays.start_at asc, plays.id asc").
		Select("songs.title as title", "performers.name as performer", "plays.start_at", "plays.end_at").
		Scan(&plays).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error listing plays on '%s': %w", channelName, err))
	}

	return plays, nil
}

// CountPlays aggregates play counts per song across the given channel set,
// restricted to plays contained in [start, end]. Channels that do not exist
// contribute nothing; row order is unspecified and callers sort.
func (db *DB) CountPlays(ctx context.Context, channels []string, start, end time.Time) ([]data.SongCount, error) {
	counts := []data.SongCount{}
	if err := db.WithContext(ctx).
		Table("plays").
		Joins("join songs on songs.id = plays.song_id").
		Joins("join performers on performers.id = songs.performer_id").
		Joins("join channels on channels.id = plays.channel_id").
		Where("channels.name in ?", channels).
		Where("plays.start_at >= ? and plays.end_at <= ?", start, end).
		Group("plays.song_id").
		Select("songs.title as title", "performers.name as performer", "count(*) as plays").
		Scan(&counts).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error counting plays: %w", err))
	}

	return counts, nil
}

func (db *DB) findSong(ctx context.Context, title, performerName string) (*data.Song, error) {
	var performer data.Performer
	err := db.WithContext(ctx).
		Where("name = ?", performerName).
		First(&performer).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching performer '%s': %w", performerName, err))
	}

	var song data.Song
	err = db.WithContext(ctx).
		Where("title = ? and performer_id = ?", title, performer.ID).
		First(&song).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching song '%s' by '%s': %w", title, performerName, err))
	}
	return &song, nil
}

func (db *DB) findChannel(ctx context.Context, name string) (*data.Channel, error) {
	var channel data.Channel
	err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&channel).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching channel '%s': %w", name, err))
	}
	return &channel, nil
}
