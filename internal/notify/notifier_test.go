package notify

import (
	"context"
	"errors"
	"testing"

	"credit-risk-workers/internal/common/config"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, input)
	return &sns.PublishOutput{}, m.err
}

type mockMailer struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockMailer) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, input)
	return &ses.SendEmailOutput{}, m.err
}

func testConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Enabled = true
	cfg.AWS.Region = "eu-central-1"
	cfg.SNS.TopicARN = "arn:aws:sns:eu-central-1:000000000000:risk-alerts"
	cfg.SES.FromEmail = "risk@example.com"
	cfg.SES.Recipients = []string{"analyst@example.com"}
	return cfg
}

func highAlert() models.RiskAlert {
	return models.NewCompanyAlert(&models.CompanyAssessment{
		ID:             42,
		CompanyName:    "Acme Holdings",
		AssessmentDate: models.NewDate(2024, 3, 1),
		CompanyPrediction: models.CompanyPrediction{
			AltmanZScore:           0.4,
			TafflerZScore:          0.1,
			CombinedRiskLevel:      models.RiskHigh,
			CombinedRecommendation: "Decline",
		},
	})
}

func TestNotify_SendsOnBothChannels(t *testing.T) {
	pub, mail := &mockPublisher{}, &mockMailer{}
	n := NewAlertNotifier(testConfig(), pub, mail, logger.NewTestLogger(t))

	alert, err := n.Notify(context.Background(), highAlert())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, alert.Status)
	assert.Equal(t, "sns,ses", alert.Channel)
	require.Len(t, pub.inputs, 1)
	require.Len(t, mail.inputs, 1)

	assert.Equal(t, "arn:aws:sns:eu-central-1:000000000000:risk-alerts", *pub.inputs[0].TopicArn)
	assert.Contains(t, *pub.inputs[0].Message, "Acme Holdings")
	assert.Contains(t, *pub.inputs[0].Message, "altman_z_score=0.4, taffler_z_score=0.1")
	assert.Equal(t, "High credit risk: company Acme Holdings (#42)", *mail.inputs[0].Message.Subject.Data)
	assert.Equal(t, []string{"analyst@example.com"}, mail.inputs[0].Destination.ToAddresses)
}

func TestNotify_IgnoresNonHighAndDisabled(t *testing.T) {
	pub, mail := &mockPublisher{}, &mockMailer{}
	n := NewAlertNotifier(testConfig(), pub, mail, logger.NewNoOpLogger())

	alert := highAlert()
	alert.RiskLevel = models.RiskMedium
	out, err := n.Notify(context.Background(), alert)
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)

	cfg := testConfig()
	cfg.Enabled = false
	n = NewAlertNotifier(cfg, pub, mail, logger.NewNoOpLogger())
	out, err = n.Notify(context.Background(), highAlert())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)

	assert.Empty(t, pub.inputs)
	assert.Empty(t, mail.inputs)
}

func TestNotify_NoChannelsConfigured(t *testing.T) {
	n := NewAlertNotifier(testConfig(), nil, nil, logger.NewNoOpLogger())
	out, err := n.Notify(context.Background(), highAlert())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
}

func TestNotify_PublishFailure(t *testing.T) {
	pub := &mockPublisher{err: errors.New("throttled")}
	mail := &mockMailer{}
	n := NewAlertNotifier(testConfig(), pub, mail, logger.NewNoOpLogger())

	out, err := n.Notify(context.Background(), highAlert())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, ChannelSNS, out.Channel)
	assert.Empty(t, mail.inputs)
}

func TestNotify_EmailFailure(t *testing.T) {
	n := NewAlertNotifier(testConfig(), &mockPublisher{}, &mockMailer{err: errors.New("not verified")}, logger.NewNoOpLogger())

	out, err := n.Notify(context.Background(), highAlert())
	require.Error(t, err)
	assert.Equal(t, ChannelSES, out.Channel)
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("{{a}} and {{missing}}!", map[string]interface{}{"a": 7})
	assert.Equal(t, "7 and !", got)
}
