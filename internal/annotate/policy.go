package annotate

import (
	"errors"
	"time"
)

// Policy is the retry schedule applied to a single row.
//
// The first failure sleeps Initial. After the first failure the delay becomes
// Escalated, and from the third failure on it doubles. On failure ReconnectAfter
// the client is rebuilt and the delay drops to ReconnectDelay. Failure
// MaxAttempts aborts the batch.
type Policy struct {
	Initial        time.Duration
	Escalated      time.Duration
	ReconnectDelay time.Duration
	ReconnectAfter uint
	MaxAttempts    uint
}

const (
	DefaultEscalatedDelay = 3 * time.Second
	DefaultReconnectDelay = 2 * time.Second
	DefaultReconnectAfter = 10
	DefaultMaxAttempts    = 13
)

func DetectPolicy() Policy {
	return Policy{
		Initial:        50 * time.Millisecond,
		Escalated:      DefaultEscalatedDelay,
		ReconnectDelay: DefaultReconnectDelay,
		ReconnectAfter: DefaultReconnectAfter,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

func TranslatePolicy() Policy {
	p := DetectPolicy()
	p.Initial = 3 * time.Second
	return p
}

func (p Policy) Validate() error {
	if p.MaxAttempts == 0 {
		return errors.New("max attempts must be at least 1")
	}
	if p.Initial < 0 || p.Escalated < 0 || p.ReconnectDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

// Delay returns how long to sleep after the given failure, counted from 1
func (p Policy) Delay(attempt uint) time.Duration {
	delay := p.Initial
	for a := uint(1); a < attempt; a++ {
		delay = p.next(a, delay)
	}
	return delay
}

// Schedule lists the delay after each failure of a row that fails every attempt.
// The delay after the last failure is never slept, the batch aborts instead.
func (p Policy) Schedule() []time.Duration {
	delays := make([]time.Duration, 0, p.MaxAttempts)
	for attempt := uint(1); attempt <= p.MaxAttempts; attempt++ {
		delays = append(delays, p.Delay(attempt))
	}
	return delays
}

func (p Policy) next(attempt uint, delay time.Duration) time.Duration {
	if attempt == 1 {
		delay = p.Escalated
	}
	if attempt > 2 {
		delay *= 2
	}
	if attempt == p.ReconnectAfter {
		delay = p.ReconnectDelay
	}
	return delay
}
