package infrastructure

import (
	"context"

	"ecochampions/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes ledger activity as Prometheus series
type Metrics struct {
	coinsAwarded      *prometheus.CounterVec
	awards            *prometheus.CounterVec
	tierChanges       *prometheus.CounterVec
	usersCreated      prometheus.Counter
	projectsCompleted prometheus.Counter
	awardFailures     *prometheus.CounterVec
}

// NewMetrics registers the ledger collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		coinsAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "coins_awarded_total",
			Help:      "Eco-coins credited, by reason.",
		}, []string{"reason"}),
		awards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "awards_total",
			Help:      "Committed awards, by reason.",
		}, []string{"reason"}),
		tierChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "tier_changes_total",
			Help:      "Users entering a tier.",
		}, []string{"tier"}),
		usersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "users_created_total",
			Help:      "Accounts created.",
		}),
		projectsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "projects_completed_total",
			Help:      "Projects that reached their goal.",
		}),
		awardFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecochampions",
			Name:      "cascade_award_failures_total",
			Help:      "Secondary awards that failed, by reason.",
		}, []string{"reason"}),
	}
}

// Subscribe attaches the collectors to the event bus
func (m *Metrics) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeCoinsAwarded, m.handle)
	bus.Subscribe(events.EventTypeTierChanged, m.handle)
	bus.Subscribe(events.EventTypeUserCreated, m.handle)
	bus.Subscribe(events.EventTypeProjectCompleted, m.handle)
	bus.Subscribe(events.EventTypeAwardFailed, m.handle)
}

func (m *Metrics) handle(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.CoinsAwardedEvent:
		m.awards.WithLabelValues(e.Reason).Inc()
		m.coinsAwarded.WithLabelValues(e.Reason).Add(float64(e.Amount))
	case events.TierChangedEvent:
		m.tierChanges.WithLabelValues(e.NewTier.String()).Inc()
	case events.UserCreatedEvent:
		m.usersCreated.Inc()
	case events.ProjectCompletedEvent:
		m.projectsCompleted.Inc()
	case events.AwardFailedEvent:
		m.awardFailures.WithLabelValues(e.Reason).Inc()
	}
}
