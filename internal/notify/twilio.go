// Package notify places outbound reminder calls through Twilio and builds
// the TwiML documents that tell the provider what to say.
package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	// ErrNotConfigured is returned when Twilio credentials are missing.
	// Callers treat this as fatal at startup.
	ErrNotConfigured = errors.New("twilio credentials are not configured")

	// ErrNoCallerNumber is returned when the outbound caller number is missing.
	ErrNoCallerNumber = errors.New("twilio caller number is not configured")
)

// Twilio wraps the call-placement operations required by the poller.
type Twilio struct {
	client        *twilio.RestClient
	callerNumber  string
	baseURL       string
	webhookSecret string
}

// NewTwilio creates a Twilio client bound to the configured caller number.
// baseURL is the public address the provider uses to fetch voice instructions.
func NewTwilio(accountSID, authToken, callerNumber, baseURL, webhookSecret string) (*Twilio, error) {
	if accountSID == "" || authToken == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(callerNumber) == "" {
		return nil, ErrNoCallerNumber
	}

	return &Twilio{
		client:        twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		callerNumber:  callerNumber,
		baseURL:       strings.TrimRight(baseURL, "/"),
		webhookSecret: webhookSecret,
	}, nil
}

// CallbackURL builds the voice webhook URL the provider fetches once the
// call is answered. Task identity and the shared secret travel as
// percent-encoded query parameters.
func (t *Twilio) CallbackURL(taskID, title, name string) string {
	query := url.Values{}
	query.Set("task_id", taskID)
	query.Set("title", title)
	query.Set("name", name)
	query.Set("secret", t.webhookSecret)
	return t.baseURL + "/voice?" + query.Encode()
}

// PlaceCall instructs Twilio to dial phone and fetch the voice webhook for
// instructions. Returns the provider's call SID.
func (t *Twilio) PlaceCall(phone, taskID, title, name string) (string, error) {
	params := &openapi.CreateCallParams{}
	params.SetTo(phone)
	params.SetFrom(t.callerNumber)
	params.SetUrl(t.CallbackURL(taskID, title, name))

	resp, err := t.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("twilio create call: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio create call: response carries no sid")
	}
	return *resp.Sid, nil
}
