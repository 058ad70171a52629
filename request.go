package sqslisten

// ReceiveRequest describes one receive call against a queue. Listen copies
// the request, so mutating it afterwards has no effect on a running
// listener.
//
// Zero values defer to the queue service defaults: one message per receive,
// short polling, and the visibility timeout configured on the queue.
type ReceiveRequest struct {
	// QueueURL is the full URL of the queue to poll. Required.
	QueueURL string

	// MaxNumberOfMessages caps how many messages a single receive may
	// return (1-10).
	MaxNumberOfMessages int32

	// WaitTimeSeconds enables long polling: the receive call blocks up to
	// this many seconds (0-20) waiting for a message to arrive.
	WaitTimeSeconds int32

	// VisibilityTimeout overrides, in seconds, how long received messages
	// stay hidden from other consumers.
	VisibilityTimeout int32

	// AttributeNames selects which system attributes to return with each
	// message, e.g. "SentTimestamp" or "All".
	AttributeNames []string

	// MessageAttributeNames selects which custom attributes to return with
	// each message. "All" returns every attribute.
	MessageAttributeNames []string
}
