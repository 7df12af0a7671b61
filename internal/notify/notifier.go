// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	awsclient "credit-risk-workers/internal/common/aws"
	"credit-risk-workers/internal/common/config"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	ChannelSNS = "sns"
	ChannelSES = "ses"

	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

var defaultTemplate = models.RiskAlertTemplate{
	Subject: "High credit risk: {{kind}} {{name}} (#{{assessmentId}})",
	Body: "Assessment #{{assessmentId}} for {{kind}} {{name}} dated {{assessmentDate}} was classified as {{riskLevel}}.\n" +
		"Scores: {{scores}}\n" +
		"Recommendation: {{recommendation}}",
}

type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// AlertNotifier publishes high-risk verdicts to SNS and emails them through SES.
// Either channel may be nil.
type AlertNotifier struct {
	cfg       config.NotificationConfig
	publisher Publisher
	mailer    Mailer
	template  models.RiskAlertTemplate
	logger    logger.Logger
}

func NewAlertNotifier(cfg config.NotificationConfig, publisher Publisher, mailer Mailer, log logger.Logger) *AlertNotifier {
	return &AlertNotifier{
		cfg:       cfg,
		publisher: publisher,
		mailer:    mailer,
		template:  defaultTemplate,
		logger:    log.WithFields(map[string]interface{}{"component": "alert-notifier"}),
	}
}

// NewAWSAlertNotifier builds the SNS and SES clients for the configured region.
func NewAWSAlertNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*AlertNotifier, error) {
	var (
		publisher Publisher
		mailer    Mailer
	)
	if cfg.SNS.TopicARN != "" {
		c, err := awsclient.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("create SNS client: %w", err)
		}
		publisher = c
	}
	if cfg.SES.FromEmail != "" && len(cfg.SES.Recipients) > 0 {
		c, err := awsclient.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("create SES client: %w", err)
		}
		mailer = c
	}
	return NewAlertNotifier(cfg, publisher, mailer, log), nil
}

// Notify sends the alert on every configured channel. Alerts below the high
// band are ignored. The returned alert carries the delivery status.
func (n *AlertNotifier) Notify(ctx context.Context, alert models.RiskAlert) (models.RiskAlert, error) {
	if !n.cfg.Enabled || alert.RiskLevel != models.RiskHigh {
		alert.Status = StatusDisabled
		return alert, nil
	}

	data := alertData(alert)
	subject := renderTemplate(n.template.Subject, data)
	body := renderTemplate(n.template.Body, data)

	var channels []string
	if n.publisher != nil && n.cfg.SNS.TopicARN != "" {
		if err := n.publish(ctx, alert, subject, body); err != nil {
			alert.Status = StatusFailed
			alert.Channel = ChannelSNS
			return alert, apperrors.NewNotificationSendFailedError(ChannelSNS, err)
		}
		channels = append(channels, ChannelSNS)
	}
	if n.mailer != nil && n.cfg.SES.FromEmail != "" && len(n.cfg.SES.Recipients) > 0 {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			alert.Status = StatusFailed
			alert.Channel = ChannelSES
			return alert, apperrors.NewNotificationSendFailedError(ChannelSES, err)
		}
		channels = append(channels, ChannelSES)
	}

	if len(channels) == 0 {
		alert.Status = StatusDisabled
		return alert, nil
	}
	alert.Status = StatusSent
	alert.Channel = strings.Join(channels, ",")

	n.logger.Info("risk alert sent", map[string]interface{}{
		"alertId":      alert.ID,
		"kind":         alert.Kind,
		"assessmentId": alert.AssessmentID,
		"channels":     alert.Channel,
	})
	return alert, nil
}

func (n *AlertNotifier) publish(ctx context.Context, alert models.RiskAlert, subject, body string) error {
	_, err := n.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.SNS.TopicARN),
		Subject:  aws.String(truncate(subject, 100)),
		Message:  aws.String(body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"kind":      {DataType: aws.String("String"), StringValue: aws.String(string(alert.Kind))},
			"riskLevel": {DataType: aws.String("String"), StringValue: aws.String(string(alert.RiskLevel))},
		},
	})
	return err
}

func (n *AlertNotifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.mailer.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: n.cfg.SES.Recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.SES.FromEmail),
	})
	return err
}

func alertData(a models.RiskAlert) map[string]interface{} {
	names := make([]string, 0, len(a.Scores))
	for k := range a.Scores {
		names = append(names, k)
	}
	sort.Strings(names)
	scores := make([]string, 0, len(names))
	for _, k := range names {
		scores = append(scores, fmt.Sprintf("%s=%v", k, a.Scores[k]))
	}

	return map[string]interface{}{
		"kind":           string(a.Kind),
		"name":           a.Name,
		"assessmentId":   a.AssessmentID,
		"assessmentDate": a.AssessmentDate.String(),
		"riskLevel":      string(a.RiskLevel),
		"recommendation": a.Recommendation,
		"scores":         strings.Join(scores, ", "),
	}
}

// renderTemplate substitutes {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
