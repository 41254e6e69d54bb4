package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// SESMailer sends notifications through AWS SES.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
	log         zerolog.Logger
}

// NewSESMailer loads the default AWS config for the given region and returns
// a Mailer backed by SES.
func NewSESMailer(ctx context.Context, region, fromAddress string, log zerolog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		log:         log,
	}, nil
}

func (m *SESMailer) SendMail(ctx context.Context, mail ports.Mail) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{mail.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(mail.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(mail.Body)},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	m.log.Debug().Str("to", mail.To).Str("subject", mail.Subject).Msg("mail sent")
	return nil
}
