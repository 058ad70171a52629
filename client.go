package sqslisten

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// QueueClient is the queue surface the listener loop drives. Implementations
// must be safe for use from multiple goroutines.
//
// Receive returns the next batch of messages, which is empty when the queue
// had nothing to hand out. Delete removes a single message by its receipt
// handle.
type QueueClient interface {
	Receive(ctx context.Context, req *ReceiveRequest) ([]Message, error)
	Delete(ctx context.Context, queueURL, receiptHandle string) error
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSClient implements QueueClient on top of the AWS SQS API.
type SQSClient struct {
	api sqsAPI
}

// NewSQSClient builds an SQSClient from a resolved AWS configuration.
func NewSQSClient(cfg aws.Config) *SQSClient {
	return &SQSClient{api: sqs.NewFromConfig(cfg)}
}

func (c *SQSClient) Receive(ctx context.Context, req *ReceiveRequest) ([]Message, error) {
	out, err := c.api.ReceiveMessage(ctx, receiveInput(req))
	if err != nil {
		return nil, newQueueError("receive message", err)
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, fromSQSMessage(m))
	}
	return msgs, nil
}

func (c *SQSClient) Delete(ctx context.Context, queueURL, receiptHandle string) error {
	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return newQueueError("delete message", err)
	}
	return nil
}

// receiveInput maps a ReceiveRequest onto the SQS call, leaving zero-valued
// fields to the service defaults.
func receiveInput(req *ReceiveRequest) *sqs.ReceiveMessageInput {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(req.QueueURL),
		MaxNumberOfMessages: req.MaxNumberOfMessages,
		WaitTimeSeconds:     req.WaitTimeSeconds,
		VisibilityTimeout:   req.VisibilityTimeout,
	}
	for _, name := range req.AttributeNames {
		input.AttributeNames = append(input.AttributeNames, types.QueueAttributeName(name))
	}
	input.MessageAttributeNames = append(input.MessageAttributeNames, req.MessageAttributeNames...)
	return input
}

func fromSQSMessage(m types.Message) Message {
	msg := Message{
		MessageID:     aws.ToString(m.MessageId),
		ReceiptHandle: aws.ToString(m.ReceiptHandle),
		Body:          aws.ToString(m.Body),
		Attributes:    m.Attributes,
	}
	if len(m.MessageAttributes) > 0 {
		msg.MessageAttributes = make(map[string]string, len(m.MessageAttributes))
		for name, attr := range m.MessageAttributes {
			msg.MessageAttributes[name] = aws.ToString(attr.StringValue)
		}
	}
	return msg
}
