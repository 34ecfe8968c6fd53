package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		args string
		want Message
	}{
		{"Ready", `[]`, Ready{}},
		{"Ready", `null`, Ready{}},
		{"StateChange", `[1]`, StateChange{Code: 1}},
		{"StateChange", `[-1]`, StateChange{Code: -1}},
		{"PlaybackQualityChange", `["hd720"]`, PlaybackQualityChange{Quality: "hd720"}},
		{"PlaybackRateChange", `[1.5]`, PlaybackRateChange{Rate: 1.5}},
		{"Errors", `[150]`, Errors{Code: 150}},
		{"VideoData", `[{"duration":212.5,"title":"Song","author":"Band","videoId":"abc123"}]`,
			VideoData{Duration: 212.5, Title: "Song", Author: "Band", VideoID: "abc123"}},
		{"VideoTime", `[12.345, 0.5]`, VideoTime{Seconds: 12.345, Buffered: 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode(tc.name, json.RawMessage(tc.args))
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg)
			assert.Equal(t, Kind(tc.name), msg.Kind())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("LoadStart", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = Decode("StateChange", json.RawMessage(`["playing"]`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Decode("VideoTime", json.RawMessage(`[1]`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Decode("VideoTime", json.RawMessage(`[1, 1.5]`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Decode("PlaybackRateChange", json.RawMessage(`[0]`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
