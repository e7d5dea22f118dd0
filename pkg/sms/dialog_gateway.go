package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotMobile is returned for numbers Dialog cannot deliver to
var ErrNotMobile = errors.New("not a Sri Lankan mobile number")

// DialogConfig holds configuration for the Dialog eSMS URL campaign API
type DialogConfig struct {
	APIURL string
	APIKey string // esmsqk key from Dialog portal
	Mask   string // source address
}

// DialogGateway sends SMS through Dialog's GET request API (URL method)
type DialogGateway struct {
	apiURL string
	apiKey string
	mask   string
	client *http.Client
}

// NewDialogGateway creates a new Dialog SMS gateway client
func NewDialogGateway(config DialogConfig) *DialogGateway {
	return &DialogGateway{
		apiURL: config.APIURL,
		apiKey: config.APIKey,
		mask:   config.Mask,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FormatPhoneForDialog converts a phone number to Dialog's 9-digit format.
// Input: "0771234567", "94771234567" or "+94771234567". Output: "771234567".
func FormatPhoneForDialog(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if strings.HasPrefix(phone, "94") && len(phone) == 11 {
		phone = phone[2:]
	}
	if strings.HasPrefix(phone, "0") && len(phone) == 10 {
		phone = phone[1:]
	}

	if len(phone) != 9 || !strings.HasPrefix(phone, "7") {
		return "", ErrNotMobile
	}
	return phone, nil
}

// Send delivers message to phone. Dialog answers "1" on success and an
// error id otherwise.
func (d *DialogGateway) Send(ctx context.Context, phone, message string) error {
	formattedPhone, err := FormatPhoneForDialog(phone)
	if err != nil {
		return fmt.Errorf("invalid phone number: %w", err)
	}

	params := url.Values{}
	params.Add("esmsqk", d.apiKey)
	params.Add("list", formattedPhone)
	params.Add("source_address", d.mask)
	params.Add("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		// url.Error embeds the full URL, including the key
		return fmt.Errorf("failed to send SMS: %s", strings.ReplaceAll(err.Error(), d.apiKey, "***"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}
	responseStr := strings.TrimSpace(string(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS API returned status %d: %s", resp.StatusCode, responseStr)
	}
	if responseStr != "1" {
		return fmt.Errorf("SMS sending failed with error code: %s", responseStr)
	}
	return nil
}

// Name returns the name of this SMS gateway
func (d *DialogGateway) Name() string {
	return "Dialog URL Gateway"
}
