package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-ahara/internal/planner"
)

const metricsNamespace = "ahara"

// Metrics owns its registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls     *prometheus.CounterVec
	ToolDuration  *prometheus.HistogramVec
	MealsComposed *prometheus.CounterVec
	SkippedRules  prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "tool_calls_total",
				Help:      "Tool calls by tool and result code",
			},
			[]string{"tool", "code"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "tool_duration_seconds",
				Help:      "Tool call latency",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"tool"},
		),
		MealsComposed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "meals_composed_total",
				Help:      "Composed meals by whether every constraint was met",
			},
			[]string{"meal_type", "satisfied"},
		),
		SkippedRules: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "skipped_rules",
				Help:      "Incompatibility rules skipped as malformed at startup",
			},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveResponse counts the meals a composition response carries.
func (m *Metrics) ObserveResponse(resp *planner.Response) {
	switch data := resp.Data.(type) {
	case planner.PlannedMeal:
		m.observeMeal(data)
	case planner.PlannedDay:
		for _, meal := range []planner.PlannedMeal{data.Breakfast, data.Lunch, data.Dinner, data.Snack} {
			m.observeMeal(meal)
		}
	}
}

func (m *Metrics) observeMeal(meal planner.PlannedMeal) {
	m.MealsComposed.WithLabelValues(string(meal.Meal.Type), strconv.FormatBool(meal.ConstraintsSatisfied)).Inc()
}
