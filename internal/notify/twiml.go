package notify

import (
	"encoding/xml"
	"fmt"
)

// VoiceResponse is the TwiML document returned to Twilio when it fetches
// voice instructions for an answered call.
type VoiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Say     Say      `xml:"Say"`
}

// Say vocalizes Message with the given voice settings.
type Say struct {
	Voice    string `xml:"voice,attr"`
	Language string `xml:"language,attr"`
	Message  string `xml:",chardata"`
}

// NewVoiceResponse builds the spoken reminder for a task. The name clause
// is omitted entirely when name is empty.
func NewVoiceResponse(title, name string) VoiceResponse {
	return VoiceResponse{
		Say: Say{
			Voice:    "Polly.Joanna",
			Language: "en-US",
			Message:  SpokenMessage(title, name),
		},
	}
}

// SpokenMessage renders the reminder text vocalized to the callee.
func SpokenMessage(title, name string) string {
	spokenName := ""
	if name != "" {
		spokenName = name + ". "
	}
	return fmt.Sprintf("Hello %sThis is a reminder. It is time for: %s.", spokenName, title)
}
