package amqp

import "time"

const maxBackoff = 30 * time.Second

// ExponentialBackoff returns the reconnect delay for the given attempt:
// 1s, 2s, 4s, ... capped at 30s.
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Second << uint(attempt)
	if delay <= 0 || delay > maxBackoff {
		return maxBackoff
	}
	return delay
}
