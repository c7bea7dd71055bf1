// Package listener wraps the API server's net.Listener.
package listener

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/apex/log"
)

const maxRetryDelay = time.Second

// ResilientListener wraps net.Listener so that recoverable accept errors are logged and
// retried instead of stopping the server. It also counts accepted connections.
type ResilientListener struct {
	net.Listener
	logger   log.Interface
	accepted atomic.Int64
	sleep    func(time.Duration)
}

// NewResilientListener wraps listenerToWrap. A nil logger uses the default apex logger.
func NewResilientListener(listenerToWrap net.Listener, logger log.Interface) *ResilientListener {
	if logger == nil {
		logger = log.Log
	}
	return &ResilientListener{Listener: listenerToWrap, logger: logger, sleep: time.Sleep}
}

// Accept retries recoverable errors with a growing delay. Closing the listener is fatal
// and returned as is.
func (l *ResilientListener) Accept() (net.Conn, error) {
	var delay time.Duration
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxRetryDelay)
			}
			l.logger.WithError(err).WithField("retry_in", delay.String()).Warn("accepting connection")
			l.sleep(delay)
			continue
		}
		l.accepted.Add(1)
		return conn, nil
	}
}

// Accepted returns the number of connections accepted so far.
func (l *ResilientListener) Accepted() int64 {
	return l.accepted.Load()
}
