package db

import (
	"context"
	"fmt"

	"github.com/mboyd/playlog/data"
	"gorm.io/gorm/clause"
)

// ResolveChannel returns the channel with the given name, creating it if
// necessary. The insert is ON CONFLICT DO NOTHING followed by a re-read of
// the canonical row, so concurrent callers resolving the same name all
// observe the one record the constraint lets through.
func (db *DB) ResolveChannel(ctx context.Context, name string) (*data.Channel, error) {
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&data.Channel{Name: name}).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error inserting channel '%s': %w", name, err))
	}

	var channel data.Channel
	if err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&channel).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching channel '%s': %w", name, err))
	}

	return &channel, nil
}

// ResolvePerformer returns the performer with the given name, creating it if
// necessary. Same convergence guarantee as ResolveChannel.
func (db *DB) ResolvePerformer(ctx context.Context, name string) (*data.Performer, error) {
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&data.Performer{Name: name}).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error inserting performer '%s': %w", name, err))
	}

	var performer data.Performer
	if err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&performer).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching performer '%s': %w", name, err))
	}

	return &performer, nil
}

// ResolveSong returns the song with the given title by the given performer,
// creating the performer and the song as needed. Songs are unique per
// (title, performer): the same title under two performers is two songs.
func (db *DB) ResolveSong(ctx context.Context, title, performerName string) (*data.Song, error) {
	performer, err := db.ResolvePerformer(ctx, performerName)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&data.Song{Title: title, PerformerID: performer.ID}).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error inserting song '%s': %w", title, err))
	}

	var song data.Song
	if err := db.WithContext(ctx).
		Where("title = ? and performer_id = ?", title, performer.ID).
		First(&song).
		Error; err != nil {
		return nil, data.Storage(fmt.Errorf("error fetching song '%s' by '%s': %w", title, performerName, err))
	}

	return &song, nil
}
