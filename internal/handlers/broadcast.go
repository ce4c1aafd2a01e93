package handlers

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/projectflow/projectflow-api/internal/realtime"
)

const publishTimeout = 5 * time.Second

// publish sends a broadcast after a successful mutation. The persistence
// write is authoritative; a failed publish is logged and reported but
// never fails the HTTP response.
func publish(b realtime.Broadcaster, channel, event string, payload interface{}) {
	if b == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.Publish(ctx, channel, event, payload); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"channel": channel,
			"event":   event,
		}).Error("broadcast publish failed")
		sentry.CaptureException(err)
	}
}
