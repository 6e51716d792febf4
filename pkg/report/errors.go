package report

import "fmt"

// PublishTimeoutError indicates the broker didn't acknowledge in time.
type PublishTimeoutError struct {
	Topic string
}

// Error implements error.
func (e *PublishTimeoutError) Error() string {
	return fmt.Sprintf("publish %s timeout", e.Topic)
}

// InvalidTopicError indicates a topic not in the report topic layout.
type InvalidTopicError struct {
	Topic string
}

// Error implements error.
func (e *InvalidTopicError) Error() string {
	return fmt.Sprintf("invalid report topic %q", e.Topic)
}
