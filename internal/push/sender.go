// Package push abstracts the external push-notification gateway. The
// gateway is a fire-and-forget multicast sender keyed by device tokens;
// production wiring supplies an FCM-backed implementation.
package push

import "log"

// Multicast delivery outcome. Individual token failures are reported, not
// retried; stale tokens are pruned by a separate concern.
type Result struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// Sender sends one notification to many device tokens at once.
type Sender interface {
	Multicast(tokens []string, title, body string, data map[string]string) (Result, error)
}

// LogSender is the fallback when no push gateway is configured. It logs the
// dispatch and reports full success so jobs are not endlessly retried.
type LogSender struct{}

func (LogSender) Multicast(tokens []string, title, body string, data map[string]string) (Result, error) {
	log.Printf("push (no gateway configured): %d token(s), title=%q", len(tokens), title)
	return Result{SuccessCount: len(tokens)}, nil
}
