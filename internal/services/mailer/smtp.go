package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"solar-report-engine/internal/config"
	"solar-report-engine/internal/utils"
)

// SMTPMailer delivers reports over authenticated STARTTLS SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTP delivery channel from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPUser,
	}
}

// SendReport emails the rendered report over SMTP.
func (m *SMTPMailer) SendReport(ctx context.Context, to, name, pdfPath string) error {
	msg, err := buildMessage(m.from, to, name, pdfPath)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return classifySMTPError(err)
	}

	utils.GetLogger().Info("Report email sent",
		zap.String("to", to),
		zap.String("attachment", pdfPath),
	)
	return nil
}

// TestConnection dials and authenticates without sending.
func (m *SMTPMailer) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	closer, err := m.dialer.Dial()
	if err != nil {
		return classifySMTPError(err)
	}
	return closer.Close()
}

// classifySMTPError maps SMTP reply codes onto the delivery error taxonomy.
// 534/535 are authentication rejections.
func classifySMTPError(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		if protoErr.Code == 534 || protoErr.Code == 535 {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
	}
	return fmt.Errorf("smtp error: %w", err)
}
