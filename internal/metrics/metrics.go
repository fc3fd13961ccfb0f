package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a private registry so tests can
// build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	PositionQuizzes prometheus.Counter
	HeroQuizzes     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		PositionQuizzes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picker_position_quizzes_total",
			Help: "Completed position quizzes.",
		}),
		HeroQuizzes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picker_hero_quizzes_total",
			Help: "Completed hero quizzes by position.",
		}, []string{"position"}),
	}
	reg.MustRegister(m.PositionQuizzes, m.HeroQuizzes)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
