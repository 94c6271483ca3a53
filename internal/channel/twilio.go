package channel

import (
	"context"
	"fmt"
	"time"

	"notify-pipeline/internal/config"
	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const smsTimeout = 10 * time.Second

// TwilioSender delivers SMS via the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	client.SetTimeout(smsTimeout)
	return &TwilioSender{client: client, from: cfg.FromNumber}
}

func (s *TwilioSender) Kind() domain.ChannelKind {
	return domain.ChannelSMS
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: sms to %s: %v", pipeline_errors.ErrChannelDelivery, msg.To, err)
	}
	return nil
}
