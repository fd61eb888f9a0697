package server

import (
	"net/http"

	"github.com/mboyd/playlog/chart"
	"github.com/mboyd/playlog/data"
	"github.com/mboyd/playlog/db"
)

type handler struct {
	store *db.DB
}

// Ingestion handlers answer 201 whether the record was just created or
// already existed: repeat submissions converge on the same row and both
// callers succeed.

func (h *handler) addChannel(w http.ResponseWriter, req *http.Request) {
	name, err := formValue(req, "name")
	if err != nil {
		writeError(w, err)
		return
	}

	channel, err := h.store.ResolveChannel(req.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": channel.Name})
}

func (h *handler) addPerformer(w http.ResponseWriter, req *http.Request) {
	name, err := formValue(req, "name")
	if err != nil {
		writeError(w, err)
		return
	}

	performer, err := h.store.ResolvePerformer(req.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": performer.Name})
}

func (h *handler) addSong(w http.ResponseWriter, req *http.Request) {
	title, err := formValue(req, "title")
	if err != nil {
		writeError(w, err)
		return
	}
	performer, err := formValue(req, "performer")
	if err != nil {
		writeError(w, err)
		return
	}

	song, err := h.store.ResolveSong(req.Context(), title, performer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"title":     song.Title,
		"performer": performer,
	})
}

func (h *handler) addPlay(w http.ResponseWriter, req *http.Request) {
	title, err := formValue(req, "title")
	if err != nil {
		writeError(w, err)
		return
	}
	performer, err := formValue(req, "performer")
	if err != nil {
		writeError(w, err)
		return
	}
	channel, err := formValue(req, "channel")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := timeValue(req, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := timeValue(req, "end")
	if err != nil {
		writeError(w, err)
		return
	}
	if end.Before(start) {
		// Checked here as well as in the store, so a bad event doesn't
		// create catalog entries on its way to being rejected.
		writeError(w, data.Validation("play interval ends before it starts"))
		return
	}

	ctx := req.Context()

	// Resolve every referenced entity before recording, so a play can be
	// ingested without a prior add_song/add_channel call.
	if _, err := h.store.ResolveSong(ctx, title, performer); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.ResolveChannel(ctx, channel); err != nil {
		writeError(w, err)
		return
	}

	play, err := h.store.RecordPlay(ctx, title, performer, channel, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	playsIngested.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{
		"title":     title,
		"performer": performer,
		"channel":   channel,
		"start":     data.FormatTime(play.Start),
		"end":       data.FormatTime(play.End),
	})
}

func (h *handler) getSongPlays(w http.ResponseWriter, req *http.Request) {
	title, err := queryValue(req, "title")
	if err != nil {
		writeError(w, err)
		return
	}
	performer, err := queryValue(req, "performer")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := queryTimeValue(req, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryTimeValue(req, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	plays, err := h.store.PlaysBySong(req.Context(), title, performer, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]songPlayRow, len(plays))
	for i, play := range plays {
		rows[i] = songPlayRow{
			Channel: play.Channel,
			Start:   data.FormatTime(play.Start),
			End:     data.FormatTime(play.End),
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handler) getChannelPlays(w http.ResponseWriter, req *http.Request) {
	channel, err := queryValue(req, "channel")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := queryTimeValue(req, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryTimeValue(req, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	plays, err := h.store.PlaysByChannel(req.Context(), channel, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]channelPlayRow, len(plays))
	for i, play := range plays {
		rows[i] = channelPlayRow{
			Title:     play.Title,
			Performer: play.Performer,
			Start:     data.FormatTime(play.Start),
			End:       data.FormatTime(play.End),
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handler) getTop(w http.ResponseWriter, req *http.Request) {
	channelsRaw, err := queryValue(req, "channels")
	if err != nil {
		writeError(w, err)
		return
	}
	startRaw, err := queryValue(req, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	limitRaw, err := queryValue(req, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	channels, err := parseChannels(channelsRaw)
	if err != nil {
		writeError(w, err)
		return
	}
	anchor, err := data.ParseTime(startRaw)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := parseLimit(limitRaw)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := chart.Top(req.Context(), h.store, chart.Params{
		Channels: channels,
		Anchor:   anchor,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) health(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type songPlayRow struct {
	Channel string `json:"channel"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type channelPlayRow struct {
	Title     string `json:"title"`
	Performer string `json:"performer"`
	Start     string `json:"start"`
	End       string `json:"end"`
}
