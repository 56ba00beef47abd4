package messaging

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
)

const whatsAppSendURL = "https://api.whatsapp.com/send"

// NormalizePhone keeps the digits of raw in international form without '+'.
// Numbers with 10 or 11 digits are taken as Brazilian (DDD + number) and get
// the 55 prefix.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.ValidationMissing("phone")
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := strings.TrimLeft(b.String(), "0")

	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}
	if len(phone) < 12 {
		return "", errors.ValidationInvalid("phone", "número incompleto")
	}
	return phone, nil
}

// WhatsAppLink builds the api.whatsapp.com link that opens a chat with text
// already typed in.
func WhatsAppLink(phone, text string) (string, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	// match encodeURIComponent: spaces become %20, not '+'
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppSendURL + "?phone=" + normalized + "&text=" + encoded, nil
}

// Message is a rendered message for one client
type Message struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	Phone      string `json:"phone"`
	Text       string `json:"text"`
}

// Dispatch is what the operator needs to actually send a message
type Dispatch struct {
	Link string `json:"link"`
}

// Dispatcher hands a message to whatever channel delivers it. Nothing here
// confirms delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) (Dispatch, error)
}

// WhatsAppLinkDispatcher only builds the deep link; the operator opens it
type WhatsAppLinkDispatcher struct{}

func (WhatsAppLinkDispatcher) Dispatch(_ context.Context, msg Message) (Dispatch, error) {
	link, err := WhatsAppLink(msg.Phone, msg.Text)
	if err != nil {
		return Dispatch{}, err
	}
	return Dispatch{Link: link}, nil
}
