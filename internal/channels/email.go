// internal/channels/email.go
package channels

import (
	"context"
	"fmt"

	"keyexpiry-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the narrow slice of the SES API the email sender uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailSender delivers notifications over SES to the address in the
// owner's channel settings.
type EmailSender struct {
	client    SESService
	fromEmail string
}

func NewEmailSender(client SESService, fromEmail string) *EmailSender {
	return &EmailSender{client: client, fromEmail: fromEmail}
}

func (s *EmailSender) Kind() string { return models.ChannelEmail }

func (s *EmailSender) Send(ctx context.Context, settings models.ChannelSettings, n *models.Notification) error {
	if settings.Address == "" {
		return fmt.Errorf("email channel settings missing address")
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{settings.Address},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(n.Title)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(n.Message)},
				Html: &types.Content{Data: aws.String(n.Message)},
			},
		},
		Source: aws.String(s.fromEmail),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
