package channel

import (
	"context"
	"fmt"
	"time"

	appconfig "notify-pipeline/internal/config"
	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const emailTimeout = 10 * time.Second

// SESSender delivers email via AWS SES.
type SESSender struct {
	client *ses.Client
	sender string
}

func NewSESSender(ctx context.Context, cfg appconfig.EmailConfig) (*SESSender, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ses config: %w", err)
	}
	return &SESSender{client: ses.NewFromConfig(awsCfg), sender: cfg.SenderEmail}, nil
}

func (s *SESSender) Kind() domain.ChannelKind {
	return domain.ChannelEmail
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, emailTimeout)
	defer cancel()

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: email to %s: %v", pipeline_errors.ErrChannelDelivery, msg.To, err)
	}
	return nil
}
