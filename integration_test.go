//go:build integration

package sqslisten

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/queueworks/sqslisten/internal/localstacktest"
	"github.com/queueworks/sqslisten/producer"
)

const awsRegion = "us-east-1"

type orderMsg struct {
	OrderID string `json:"order_id"`
}

func TestListenerAgainstLocalstack(t *testing.T) {
	endpoint, cleanup, err := localstacktest.StartSQS()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ctx := context.Background()
	cfg := Config{Region: awsRegion, Endpoint: endpoint, AccessKey: "test", SecretKey: "test"}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	require.NoError(t, err)
	sqsSvc := sqs.NewFromConfig(awsCfg)
	queueURL := createTestQueue(t, ctx, sqsSvc, strings.ToLower(t.Name()))

	listener, err := New(ctx, cfg)
	require.NoError(t, err)

	handler := &recordingHandler{}
	handle := listener.Listen(ctx, ReceiveRequest{
		QueueURL:              queueURL,
		MaxNumberOfMessages:   10,
		WaitTimeSeconds:       1,
		MessageAttributeNames: []string{"All"},
	}, handler)

	p := producer.NewStandard(sqsSvc, queueURL)
	msgID, err := p.Send(ctx, producer.Message{
		Body:       `{"order_id":"42"}`,
		Attributes: map[string]string{"TraceID": "traceid123"},
	})
	require.NoError(t, err)

	// Wait for the message to arrive.
	assert.Eventually(t, func() bool { return handler.messageCount() == 1 }, time.Second*10, time.Millisecond*100)

	got := handler.snapshot()[0]
	assert.Equal(t, msgID, got.MessageID)
	assert.Equal(t, "traceid123", got.MessageAttributes["TraceID"])

	var decoded orderMsg
	require.NoError(t, got.Decode(&decoded))
	assert.Equal(t, "42", decoded.OrderID)

	// Check that the dispatched message was deleted from the queue.
	time.Sleep(time.Second * 1)
	assert.Equal(t, 0, getNumOfVisibleMessagesInQueue(t, ctx, sqsSvc, queueURL))
	assert.Equal(t, 0, getNumOfNotVisibleMessagesInQueue(t, ctx, sqsSvc, queueURL))

	handle.Stop()

	// Nothing may be dispatched once Stop has returned.
	after := handler.messageCount()
	_, err = p.Send(ctx, producer.Message{Body: `{"order_id":"43"}`})
	require.NoError(t, err)
	time.Sleep(time.Second * 2)
	assert.Equal(t, after, handler.messageCount())
	assert.Zero(t, handler.errorCount())
}

func createTestQueue(t *testing.T, ctx context.Context, sqsSvc *sqs.Client, queueName string) string {
	queue, err := sqsSvc.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		zap.S().With(zap.Error(err)).Error("error while creating queue")
		t.FailNow()
	}
	return aws.ToString(queue.QueueUrl)
}

func getNumOfVisibleMessagesInQueue(t *testing.T, ctx context.Context, sqsSvc *sqs.Client, queueURL string) int {
	return getQueueAttribute(t, ctx, sqsSvc, queueURL, "ApproximateNumberOfMessages")
}

func getNumOfNotVisibleMessagesInQueue(t *testing.T, ctx context.Context, sqsSvc *sqs.Client, queueURL string) int {
	return getQueueAttribute(t, ctx, sqsSvc, queueURL, "ApproximateNumberOfMessagesNotVisible")
}

func getQueueAttribute(t *testing.T, ctx context.Context, sqsSvc *sqs.Client, queueURL, attributeName string) int {
	attributes, err := sqsSvc.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeName(attributeName)},
	})
	if err != nil {
		zap.S().Error("error retrieving queue attributes")
		t.FailNow()
	}
	messageCount, err := strconv.Atoi(attributes.Attributes[attributeName])
	if err != nil {
		zap.S().Error("error converting string to int")
	}
	return messageCount
}
