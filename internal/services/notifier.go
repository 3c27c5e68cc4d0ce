package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers a verification link to an email address.
type Notifier interface {
	Send(ctx context.Context, token, email string) error
}

// SESNotifier sends verification emails through AWS SES.
type SESNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	frontendURL string
	logger      *slog.Logger
}

func NewSESNotifier(region, fromAddress, frontendURL string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		frontendURL: frontendURL,
		logger:      logger,
	}, nil
}

// Send delivers the verification link for token to email.
func (n *SESNotifier) Send(ctx context.Context, token, email string) error {
	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", n.frontendURL, token)

	htmlBody := fmt.Sprintf(`<h2>Please click on the link to verify your email</h2>
<p><a href="%s">Verify Email</a></p>
<p>The link expires in 10 minutes. If you did not create this account, you can ignore this email.</p>`,
		verificationLink)

	textBody := fmt.Sprintf(`Please open the link below to verify your email address:

%s

The link expires in 10 minutes. If you did not create this account, you can ignore this email.
`, verificationLink)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Verify your email address"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := n.sesClient.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	n.logger.Info("verification email sent",
		slog.String("email", email),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
