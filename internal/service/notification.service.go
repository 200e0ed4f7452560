package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"themeradar/internal/logger"
	"themeradar/internal/repository"
	"themeradar/internal/serialize"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// NotificationService renders a finished report into an email and
// sends it. It never changes the report.
type NotificationService interface {
	RenderReportEmail(report serialize.ReportJSON) (*ReportEmail, error)
	SendReport(ctx context.Context, recipients []string, report serialize.ReportJSON) error
}

type ReportEmail struct {
	Subject  string
	HtmlBody string
	TextBody string
}

type notificationServiceHandler struct {
	EmailRepository repository.EmailRepository
	markdown        goldmark.Markdown
}

func NewNotificationService(emailRepository repository.EmailRepository) NotificationService {
	return &notificationServiceHandler{
		EmailRepository: emailRepository,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

var emailLayout = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: -apple-system, "Hiragino Sans", sans-serif; color: #222; }
table { border-collapse: collapse; margin-bottom: 16px; }
th, td { border: 1px solid #ddd; padding: 4px 8px; }
th { background: #f4f4f4; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

func reportSubject(report serialize.ReportJSON) string {
	date := report.GeneratedAt.Format("2006-01-02")
	if len(report.Summary.TopThemeNames) == 0 {
		return fmt.Sprintf("Theme report %s: %d movers, no themes", date, report.Summary.TotalMovers)
	}
	return fmt.Sprintf("Theme report %s: %s", date, strings.Join(report.Summary.TopThemeNames, ", "))
}

func (h *notificationServiceHandler) RenderReportEmail(report serialize.ReportJSON) (*ReportEmail, error) {
	md := serialize.MarshalMarkdown(report)

	var body bytes.Buffer
	if err := h.markdown.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("failed to render report markdown: %w", err)
	}

	var page bytes.Buffer
	if err := emailLayout.Execute(&page, template.HTML(body.String())); err != nil {
		return nil, fmt.Errorf("failed to render email layout: %w", err)
	}

	return &ReportEmail{
		Subject:  reportSubject(report),
		HtmlBody: page.String(),
		TextBody: string(md),
	}, nil
}

func (h *notificationServiceHandler) SendReport(ctx context.Context, recipients []string, report serialize.ReportJSON) error {
	if len(recipients) == 0 {
		return nil
	}

	email, err := h.RenderReportEmail(report)
	if err != nil {
		return err
	}

	messageID, err := h.EmailRepository.SendEmail(ctx, recipients, email.Subject, email.HtmlBody, email.TextBody)
	if err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	logger.FromContext(ctx).Infow("sent report email",
		"recipients", len(recipients),
		"messageId", messageID,
	)
	return nil
}
