package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"reminder-backend/utils"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelLog      = "log"
)

// Sender delivers a rendered reminder body to a destination address.
type Sender interface {
	Send(ctx context.Context, to, body string) (sid string, err error)
	Channel(to string) string
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends messages through the Twilio REST API. Destinations
// prefixed with "whatsapp:" go over WhatsApp, anything else as SMS.
type TwilioSender struct {
	api  messageCreator
	from string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{api: client.Api, from: from}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: failed to send message to %s: %w", to, err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

func (s *TwilioSender) Channel(to string) string {
	if utils.IsWhatsApp(to) {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

// LogSender writes notifications to the logger instead of a provider.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("log sender: %w", err)
	}

	sid := "log-" + uuid.NewString()
	s.log.Info("Notification",
		zap.String("to", to),
		zap.String("body", body),
		zap.String("sid", sid),
	)
	return sid, nil
}

func (s *LogSender) Channel(string) string {
	return ChannelLog
}
