package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/mboyd/playlog/data"
)

// All parameter decoding happens here, before any store call. A request that
// fails to decode never reaches the database.

func formValue(req *http.Request, name string) (string, error) {
	value := req.PostFormValue(name)
	if value == "" {
		return "", data.MissingParameter(name)
	}
	return value, nil
}

func queryValue(req *http.Request, name string) (string, error) {
	value := req.URL.Query().Get(name)
	if value == "" {
		return "", data.MissingParameter(name)
	}
	return value, nil
}

func timeValue(req *http.Request, name string) (time.Time, error) {
	value, err := formValue(req, name)
	if err != nil {
		return time.Time{}, err
	}
	return data.ParseTime(value)
}

func queryTimeValue(req *http.Request, name string) (time.Time, error) {
	value, err := queryValue(req, name)
	if err != nil {
		return time.Time{}, err
	}
	return data.ParseTime(value)
}

// parseChannels decodes the channel-set parameter. The accepted grammar is
// strict: a JSON array of non-empty strings, like ["Channel1","Channel2"].
func parseChannels(value string) ([]string, error) {
	var channels []string
	if err := json.Unmarshal([]byte(value), &channels); err != nil {
		return nil, data.MalformedChannelList()
	}
	if len(channels) == 0 {
		return nil, data.MalformedChannelList()
	}
	for _, channel := range channels {
		if channel == "" {
			return nil, data.MalformedChannelList()
		}
	}
	return channels, nil
}

// parseLimit decodes the chart size. Zero is a valid (empty) chart; negative
// or non-integer values are malformed.
func parseLimit(value string) (int, error) {
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0, data.MalformedLimit()
	}
	return limit, nil
}
