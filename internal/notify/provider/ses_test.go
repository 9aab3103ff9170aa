package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"
	"business-notifier/internal/notify/compose"
)

// ==========================
// Mock SES Client
// ==========================

type mockSESClient struct {
	sendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	lastInput     *ses.SendEmailInput
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.lastInput = params
	return m.sendEmailFunc(ctx, params, optFns...)
}

func testTransactional(t *testing.T, client SESAPI) *TransactionalProvider {
	t.Helper()
	return NewTransactional(client, "BizTrack Notifications", "noreply@biztrack.example.com", logger.NewTestLogger(t))
}

func testComposeMessage() *compose.Message {
	return &compose.Message{
		Subject: "Your Loan Status Update - BizTrack",
		HTML:    "<html><body><p>approved</p></body></html>",
		Text:    "approved",
	}
}

// ==========================
// Send Tests
// ==========================

func TestTransactionalProvider_SendDelivered(t *testing.T) {
	client := &mockSESClient{
		sendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{MessageId: aws.String("api-msg-123")}, nil
		},
	}
	p := testTransactional(t, client)

	out := p.Send(context.Background(), models.Recipient{Name: "Acme Pvt Ltd", Email: "owner@acme.example.com"}, testComposeMessage())

	assert.Equal(t, StatusDelivered, out.Status)
	assert.Equal(t, "api-msg-123", out.MessageID)
	assert.Empty(t, out.Reason)
}

func TestTransactionalProvider_SendBuildsInput(t *testing.T) {
	client := &mockSESClient{
		sendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{MessageId: aws.String("api-msg-123")}, nil
		},
	}
	p := testTransactional(t, client)
	msg := testComposeMessage()

	p.Send(context.Background(), models.Recipient{Name: "Acme Pvt Ltd", Email: "owner@acme.example.com"}, msg)

	input := client.lastInput
	require.NotNil(t, input)
	assert.Equal(t, `"BizTrack Notifications" <noreply@biztrack.example.com>`, aws.ToString(input.Source))
	require.Len(t, input.Destination.ToAddresses, 1, "one recipient per message")
	assert.Equal(t, `"Acme Pvt Ltd" <owner@acme.example.com>`, input.Destination.ToAddresses[0])
	assert.Equal(t, msg.Subject, aws.ToString(input.Message.Subject.Data))
	assert.Equal(t, msg.HTML, aws.ToString(input.Message.Body.Html.Data))
	assert.Equal(t, msg.Text, aws.ToString(input.Message.Body.Text.Data))
}

func TestTransactionalProvider_SendRejected(t *testing.T) {
	client := &mockSESClient{
		sendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, &types.MessageRejected{Message: aws.String("Email address is not verified")}
		},
	}
	p := testTransactional(t, client)

	out := p.Send(context.Background(), models.Recipient{Email: "owner@acme.example.com"}, testComposeMessage())

	assert.Equal(t, StatusRejected, out.Status)
	assert.Contains(t, out.Reason, "rejected")
}

func TestTransactionalProvider_SendAPIFailure(t *testing.T) {
	client := &mockSESClient{
		sendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, fmt.Errorf("RequestError: send request failed")
		},
	}
	p := testTransactional(t, client)

	out := p.Send(context.Background(), models.Recipient{Email: "owner@acme.example.com"}, testComposeMessage())

	assert.Equal(t, StatusUnavailable, out.Status)
	assert.Contains(t, out.Reason, "API call failed")
}

func TestTransactionalProvider_SendMissingMessageID(t *testing.T) {
	tests := []struct {
		name   string
		output *ses.SendEmailOutput
	}{
		{"nil message id", &ses.SendEmailOutput{}},
		{"empty message id", &ses.SendEmailOutput{MessageId: aws.String("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockSESClient{
				sendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					return tt.output, nil
				},
			}
			p := testTransactional(t, client)

			out := p.Send(context.Background(), models.Recipient{Email: "owner@acme.example.com"}, testComposeMessage())

			assert.Equal(t, StatusUnavailable, out.Status, "acceptance without a message id is not a delivery")
		})
	}
}

func TestTransactionalProvider_Name(t *testing.T) {
	p := testTransactional(t, &mockSESClient{})
	assert.Equal(t, NameTransactional, p.Name())
}
