package sqslisten

import "encoding/json"

// Message is a single message received from a queue. It carries everything
// a handler needs without exposing SDK wire types.
type Message struct {
	// MessageID is the service-assigned identifier of the message.
	MessageID string
	// ReceiptHandle identifies this particular receipt of the message and
	// is what the listener uses to delete it. It may be empty on malformed
	// responses, in which case the delete step is skipped.
	ReceiptHandle string
	// Body is the raw message payload.
	Body string
	// Attributes holds system attributes such as SentTimestamp.
	Attributes map[string]string
	// MessageAttributes holds the string-valued custom attributes attached
	// by the producer.
	MessageAttributes map[string]string
}

// Decode unmarshals the JSON message body into out.
func (m *Message) Decode(out interface{}) error {
	return json.Unmarshal([]byte(m.Body), out)
}
