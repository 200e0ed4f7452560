package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailRepository sends pre-rendered html. Rendering is done by the
// notification service.
type EmailRepository interface {
	SendEmail(ctx context.Context, to []string, subject string, htmlBody string, textBody string) (string, error)
}

type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type emailRepositoryHandler struct {
	sesClient sesClient
	fromEmail string
}

// NewEmailRepository creates an SES backed sender. fromEmail must be a
// verified identity in region.
func NewEmailRepository(region, fromEmail string) (EmailRepository, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &emailRepositoryHandler{
		sesClient: sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
	}, nil
}

func utf8Content(s string) *types.Content {
	return &types.Content{
		Data:    aws.String(s),
		Charset: aws.String("UTF-8"),
	}
}

// SendEmail returns the SES message id
func (h *emailRepositoryHandler) SendEmail(ctx context.Context, to []string, subject string, htmlBody string, textBody string) (string, error) {
	if len(to) == 0 {
		return "", fmt.Errorf("failed to send email: no recipients")
	}

	body := &types.Body{
		Html: utf8Content(htmlBody),
	}
	if textBody != "" {
		body.Text = utf8Content(textBody)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(h.fromEmail),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(subject),
				Body:    body,
			},
		},
	}

	result, err := h.sesClient.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send email via SES: %w", err)
	}

	return aws.ToString(result.MessageId), nil
}
