// Package metrics records notification outcomes.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives one call per attempted notification.
type Recorder interface {
	RecordNotification(role string, sent bool, errorKind string)
}

// NopRecorder drops every record.
type NopRecorder struct{}

func (NopRecorder) RecordNotification(string, bool, string) {}

// PromRecorder counts notifications in Prometheus.
type PromRecorder struct {
	notifications *prometheus.CounterVec
}

// NewPromRecorder registers the notification counter on reg, or on the
// default registerer when reg is nil. An existing collector is reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_notifications_total",
		Help: "Total number of interview notification emails attempted",
	}, []string{"role", "outcome"})

	if err := reg.Register(notifications); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		notifications = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return &PromRecorder{notifications: notifications}, nil
}

// RecordNotification implements Recorder. Failures are labelled by kind.
func (p *PromRecorder) RecordNotification(role string, sent bool, errorKind string) {
	outcome := "sent"
	if !sent {
		outcome = errorKind
		if outcome == "" {
			outcome = "failed"
		}
	}
	p.notifications.WithLabelValues(role, outcome).Inc()
}
