package sqslisten

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	log "github.com/sirupsen/logrus"
)

// Listener starts background polling loops against SQS queues. A single
// Listener may serve any number of concurrent Listen calls; each call gets
// its own goroutine and its own Handle.
type Listener struct {
	client QueueClient
}

// New builds a Listener from a Config, resolving credentials and region
// through the default AWS chain plus whatever the Config overrides.
func New(ctx context.Context, cfg Config) (*Listener, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(awsCfg), nil
}

// NewFromConfig builds a Listener from an already resolved AWS
// configuration.
func NewFromConfig(cfg aws.Config) *Listener {
	return NewFromClient(NewSQSClient(cfg))
}

// NewFromClient builds a Listener on top of a custom QueueClient.
func NewFromClient(client QueueClient) *Listener {
	return &Listener{client: client}
}

// Listen starts polling the queue described by req in a new goroutine and
// returns immediately. Every received message, and every receive failure,
// is passed to handler one invocation at a time, in arrival order. Each
// dispatched message is then deleted from the queue no matter what the
// handler returned.
//
// The loop runs until the returned Handle's Stop is called or ctx is
// cancelled. Cancelling ctx is the hard path: it aborts the in-flight
// receive and nothing further is dispatched. Stop is the graceful one.
func (l *Listener) Listen(ctx context.Context, req ReceiveRequest, handler Handler) *Handle {
	h := newHandle()
	go l.poll(ctx, h, req, handler)
	return h
}

func (l *Listener) poll(ctx context.Context, h *Handle, req ReceiveRequest, handler Handler) {
	defer close(h.done)

	logger := log.WithFields(log.Fields{"listener_id": h.ID(), "queue_url": req.QueueURL})
	logger.Info("listener started")

	for {
		if h.stopRequested() {
			logger.Info("stop requested, listener exiting")
			return
		}
		if ctx.Err() != nil {
			logger.Info("context closed, listener exiting")
			return
		}

		msgs, err := l.client.Receive(ctx, &req)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("context closed, listener exiting")
				return
			}
			logger.WithError(err).Error("could not receive messages from SQS")
			if herr := handler.Run(ctx, nil, err); herr != nil {
				logger.WithError(herr).Warn("handler returned an error")
			}
			continue
		}

		if len(msgs) > 0 {
			logger.Debugf("received %d messages", len(msgs))
		}
		for i := range msgs {
			l.dispatch(ctx, handler, &msgs[i], req.QueueURL, logger)
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, handler Handler, m *Message, queueURL string, logger *log.Entry) {
	span, ctx := tracer.StartSpanFromContext(ctx, "sqs_listen.handle_msg")
	span.SetTag("message_id", m.MessageID)
	defer span.Finish()

	if err := handler.Run(ctx, m, nil); err != nil {
		span.SetTag("success", false)
		span.SetTag("error", err)
		logger.WithFields(TraceFields(ctx)).WithError(err).Warn("handler returned an error")
	} else {
		span.SetTag("success", true)
	}

	// The message was dispatched, so it leaves the queue. Handler errors do
	// not put it back.
	l.ack(ctx, m, queueURL, logger)
}

func (l *Listener) ack(ctx context.Context, m *Message, queueURL string, logger *log.Entry) {
	if m.ReceiptHandle == "" {
		logger.Warn("message has no receipt handle, skipping delete")
		return
	}

	span, ctx := tracer.StartSpanFromContext(ctx, "sqs_listen.delete_msg")
	defer span.Finish()

	if err := l.client.Delete(ctx, queueURL, m.ReceiptHandle); err != nil {
		span.SetTag("deleted", false)
		span.SetTag("error", err)
		logger.WithFields(TraceFields(ctx)).WithError(err).Error("error removing message")
		return
	}
	span.SetTag("deleted", true)
	logger.WithFields(TraceFields(ctx)).Debug("message deleted")
}

// TraceFields extracts Datadog trace correlation fields from ctx for use in
// log entries.
func TraceFields(ctx context.Context) log.Fields {
	if span, ok := tracer.SpanFromContext(ctx); ok {
		return log.Fields{"dd.trace_id": span.Context().TraceID(), "dd.span_id": span.Context().SpanID()}
	}
	return log.Fields{}
}
