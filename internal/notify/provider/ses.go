package provider

import (
	"context"
	"errors"
	"fmt"

	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"
	"business-notifier/internal/notify/compose"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const NameTransactional = "transactional-api"

// SESAPI is the slice of the SES client the provider uses, kept small for
// mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// TransactionalProvider delivers through the transactional email API.
type TransactionalProvider struct {
	client    SESAPI
	fromName  string
	fromEmail string
	logger    logger.Logger
}

// NewTransactional builds the provider from an already-constructed API
// client. Tests inject a mock here.
func NewTransactional(client SESAPI, fromName, fromEmail string, log logger.Logger) *TransactionalProvider {
	return &TransactionalProvider{
		client:    client,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"provider": NameTransactional}),
	}
}

// NewSESClient loads AWS configuration for the given region and returns the
// real API client.
func NewSESClient(ctx context.Context, region string) (SESAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

func (p *TransactionalProvider) Name() string {
	return NameTransactional
}

func (p *TransactionalProvider) Send(ctx context.Context, rcpt models.Recipient, msg *compose.Message) Outcome {
	input := &ses.SendEmailInput{
		Source: aws.String(formatAddress(models.Recipient{Name: p.fromName, Email: p.fromEmail})),
		Destination: &types.Destination{
			ToAddresses: []string{formatAddress(rcpt)},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(msg.HTML),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(msg.Text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		var msgRejected *types.MessageRejected
		if errors.As(err, &msgRejected) {
			return rejected(fmt.Sprintf("API rejected message: %v", err))
		}
		return unavailable(fmt.Sprintf("API call failed: %v", err))
	}

	// A provider-assigned message id is the only success signal.
	if out == nil || out.MessageId == nil || *out.MessageId == "" {
		return unavailable("API response carried no message id")
	}

	return delivered(*out.MessageId)
}
