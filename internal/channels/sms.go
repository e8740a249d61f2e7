// internal/channels/sms.go
package channels

import (
	"context"
	"fmt"

	"keyexpiry-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSService is the narrow slice of the SNS API the SMS sender uses.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSSender delivers notifications as SMS through SNS to the phone
// number in the owner's channel settings.
type SMSSender struct {
	client SNSService
}

func NewSMSSender(client SNSService) *SMSSender {
	return &SMSSender{client: client}
}

func (s *SMSSender) Kind() string { return models.ChannelSMS }

func (s *SMSSender) Send(ctx context.Context, settings models.ChannelSettings, n *models.Notification) error {
	if settings.Phone == "" {
		return fmt.Errorf("sms channel settings missing phone number")
	}

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(settings.Phone),
		Message:     aws.String(n.Message),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
