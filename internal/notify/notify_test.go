package notify

import (
	"encoding/xml"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTwilioRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewTwilio("", "", "+15550001111", "http://localhost:5000", "s3cret")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewTwilio("AC123", "token", "  ", "http://localhost:5000", "s3cret")
	assert.ErrorIs(t, err, ErrNoCallerNumber)
}

func TestCallbackURLEncodesParameters(t *testing.T) {
	t.Parallel()

	tw, err := NewTwilio("AC123", "token", "+15550001111", "http://example.com/", "s3cret&more")
	require.NoError(t, err)

	raw := tw.CallbackURL("task-1", "Call mom & dad", "Alex O'Brien")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/voice", parsed.Path)
	assert.Equal(t, "example.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "task-1", query.Get("task_id"))
	assert.Equal(t, "Call mom & dad", query.Get("title"))
	assert.Equal(t, "Alex O'Brien", query.Get("name"))
	assert.Equal(t, "s3cret&more", query.Get("secret"))
}

func TestSpokenMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"Hello Alex. This is a reminder. It is time for: Call mom.",
		SpokenMessage("Call mom", "Alex"))
	assert.Equal(t,
		"Hello This is a reminder. It is time for: Call mom.",
		SpokenMessage("Call mom", ""))
}

func TestVoiceResponseMarshalsToTwiML(t *testing.T) {
	t.Parallel()

	out, err := xml.Marshal(NewVoiceResponse("Call mom", "Alex"))
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "<Response>")
	assert.Contains(t, got, `<Say voice="Polly.Joanna" language="en-US">`)
	assert.Contains(t, got, "Hello Alex. This is a reminder. It is time for: Call mom.")
}
