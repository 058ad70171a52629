// Package producer sends messages to SQS queues, the counterpart of the
// listener on the publishing side.
package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Producer sends messages to a single SQS queue.
type Producer struct {
	api      sqsAPI
	queueURL string
	fifo     bool
}

// NewStandard returns a Producer for a standard queue.
func NewStandard(api sqsAPI, queueURL string) *Producer {
	return &Producer{api: api, queueURL: queueURL}
}

// NewFIFO returns a Producer for a FIFO queue.
func NewFIFO(api sqsAPI, queueURL string) *Producer {
	return &Producer{api: api, queueURL: queueURL, fifo: true}
}

// Message is one outgoing message. GroupID and DedupID apply to FIFO queues
// only; DelaySeconds applies to standard queues only.
type Message struct {
	Body         string
	GroupID      string
	DedupID      string
	DelaySeconds int32
	Attributes   map[string]string
}

// NewJSONMessage marshals v and returns a Message carrying it as the body.
func NewJSONMessage(v interface{}) (Message, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("encoding message body: %w", err)
	}
	return Message{Body: string(body)}, nil
}

// Send validates msg against the queue type and sends it. It returns the
// service-assigned message ID.
func (p *Producer) Send(ctx context.Context, msg Message) (string, error) {
	if err := p.validate(msg); err != nil {
		return "", fmt.Errorf("invalid sqs message: %w", err)
	}

	out, err := p.api.SendMessage(ctx, p.toSQSInput(msg))
	if err != nil {
		return "", fmt.Errorf("error sending message to queue %s, reason: %w", p.queueURL, err)
	}
	return aws.ToString(out.MessageId), nil
}

func (p *Producer) toSQSInput(msg Message) *sqs.SendMessageInput {
	input := &sqs.SendMessageInput{
		QueueUrl:     aws.String(p.queueURL),
		MessageBody:  aws.String(msg.Body),
		DelaySeconds: msg.DelaySeconds,
	}
	if msg.GroupID != "" {
		input.MessageGroupId = aws.String(msg.GroupID)
	}
	if msg.DedupID != "" {
		input.MessageDeduplicationId = aws.String(msg.DedupID)
	}
	if len(msg.Attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for name, value := range msg.Attributes {
			input.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(value),
			}
		}
	}
	return input
}

func (p *Producer) validate(msg Message) error {
	if msg.Body == "" {
		return errors.New("message body cannot be empty")
	}
	if p.fifo {
		if msg.GroupID == "" {
			return errors.New("FIFO queue requires a message group ID")
		}
		if msg.DelaySeconds != 0 {
			return errors.New("FIFO queues do not support per-message delays")
		}
	} else {
		if msg.GroupID != "" || msg.DedupID != "" {
			return errors.New("FIFO fields set for a standard queue")
		}
	}
	return nil
}
