package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	appconfig "solar-report-engine/internal/config"
	"solar-report-engine/internal/utils"
)

// SESMailer delivers reports through AWS SES. The MIME message (HTML body +
// PDF attachment) is assembled locally and sent raw.
type SESMailer struct {
	client *ses.Client
	from   string
}

// NewSESMailer creates an SES delivery channel.
func NewSESMailer(ctx context.Context, cfg *appconfig.Config) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.SESSenderEmail,
	}, nil
}

// SendReport emails the rendered report via SES SendRawEmail.
func (m *SESMailer) SendReport(ctx context.Context, to, name, pdfPath string) error {
	msg, err := buildMessage(m.from, to, name, pdfPath)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	if _, err := msg.WriteTo(&raw); err != nil {
		return fmt.Errorf("encode raw message: %w", err)
	}

	result, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(m.from),
		Destinations: []string{to},
		RawMessage:   &types.RawMessage{Data: raw.Bytes()},
	})
	if err != nil {
		return classifySESError(err)
	}

	utils.GetLogger().Info("Report email sent via SES",
		zap.String("to", to),
		zap.String("messageId", aws.ToString(result.MessageId)),
	)
	return nil
}

// TestConnection verifies credentials by querying the sending quota.
func (m *SESMailer) TestConnection(ctx context.Context) error {
	if _, err := m.client.GetSendQuota(ctx, &ses.GetSendQuotaInput{}); err != nil {
		return classifySESError(err)
	}
	return nil
}

// classifySESError maps AWS credential rejections onto the delivery error
// taxonomy.
func classifySESError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidClientTokenId", "SignatureDoesNotMatch", "AccessDenied", "UnrecognizedClientException":
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
	}
	return fmt.Errorf("ses error: %w", err)
}
