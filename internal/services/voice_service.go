package services

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/example/authd/internal/config"
)

// VoiceCaller places an outbound call reading the given text aloud.
type VoiceCaller interface {
	Call(to, say string) error
}

// TwilioService places voice calls through the Twilio REST API.
type TwilioService struct {
	accountSID string
	authToken  string
	fromPhone  string
}

// NewTwilioService constructs a TwilioService from configuration.
func NewTwilioService(cfg *config.Config) *TwilioService {
	return &TwilioService{
		accountSID: cfg.TwilioSID,
		authToken:  cfg.TwilioAuthToken,
		fromPhone:  cfg.TwilioPhone,
	}
}

// Call places a call to the given number with inline TwiML speaking the text.
func (s *TwilioService) Call(to, say string) error {
	if s.accountSID == "" || s.authToken == "" {
		log.Println("[Twilio] credentials not configured, dropping call")
		return nil
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Calls.json", s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.fromPhone)
	form.Set("Twiml", fmt.Sprintf("<Response><Say>%s</Say></Response>", say))

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[Twilio] Failed to place call: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Twilio] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	return nil
}
