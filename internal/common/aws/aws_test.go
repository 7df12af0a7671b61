package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct{ topic string }

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.topic = aws.ToString(in.TopicArn)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSES struct{ source string }

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.source = aws.ToString(in.Source)
	return &ses.SendEmailOutput{MessageId: aws.String("e-1")}, nil
}

func TestClientsDelegate(t *testing.T) {
	snsFake := &fakeSNS{}
	out, err := NewSNSClientWithAPI(snsFake).Publish(context.Background(), &sns.PublishInput{TopicArn: aws.String("arn:t")})
	require.NoError(t, err)
	assert.Equal(t, "m-1", aws.ToString(out.MessageId))
	assert.Equal(t, "arn:t", snsFake.topic)

	sesFake := &fakeSES{}
	eout, err := NewSESClientWithAPI(sesFake).SendEmail(context.Background(), &ses.SendEmailInput{Source: aws.String("a@b.c")})
	require.NoError(t, err)
	assert.Equal(t, "e-1", aws.ToString(eout.MessageId))
	assert.Equal(t, "a@b.c", sesFake.source)
}
