package submission

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Class is the flush-failure classification. It decides whether a failed
// attempt keeps the outbox entry for retry or demotes it back into the draft,
// which makes it the single most consequential policy in the pipeline:
// offline-as-terminal loses the retry, terminal-as-offline retries forever.
type Class string

const (
	// ClassOffline marks a connectivity failure: the payload and its dedup
	// token are safe to retry verbatim.
	ClassOffline Class = "offline"

	// ClassTerminal marks everything else: retrying without user
	// intervention will not help.
	ClassTerminal Class = "terminal"
)

// transient is implemented by errors tagged at their point of production.
type transient interface {
	IsTransient() bool
}

// connectivityPhrases is the fallback for errors that crossed an untyped
// boundary, such as a raw transport error stringified by a lower layer. Kept
// here and nowhere else.
var connectivityPhrases = []string{
	"fetch failed",
	"network request failed",
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"tls handshake timeout",
	"dial tcp",
	"broken pipe",
	"temporarily unavailable",
}

// Classify labels a flush failure as offline or terminal. Typed transient
// tags win; untyped errors fall back to net.Error inspection and then to
// message-pattern matching.
func Classify(err error) Class {
	if err == nil {
		return ClassTerminal
	}

	var tagged transient
	if errors.As(err, &tagged) {
		if tagged.IsTransient() {
			return ClassOffline
		}

		return ClassTerminal
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassOffline
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassOffline
	}

	message := strings.ToLower(err.Error())
	for _, phrase := range connectivityPhrases {
		if strings.Contains(message, phrase) {
			return ClassOffline
		}
	}

	return ClassTerminal
}
