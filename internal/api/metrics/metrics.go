// Package metrics defines the portal's custom Prometheus metrics. It is the
// single source of truth for metric names, labels and help strings.
//
// Build a set with New and register it once with Register. Each router gets
// its own registry so tests never collide on duplicate registration.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadhana-school/portal/internal/infrastructure/backend"
)

const namespace = "portal"

// Metrics holds the portal collectors.
type Metrics struct {
	// BackendRequestsTotal counts calls to the school backend.
	// Labels:
	//   - method: HTTP method
	//   - route: route template (e.g. "/students/:id/attendance")
	//   - status: response status code, or "error" on transport failure
	BackendRequestsTotal *prometheus.CounterVec

	// BackendRequestDuration measures backend round trips.
	BackendRequestDuration *prometheus.HistogramVec

	// ForcedLogoutsTotal counts sessions ended by a rejected credential.
	ForcedLogoutsTotal prometheus.Counter

	// ChatRepliesTotal counts chat answers by source ("remote" or "local").
	ChatRepliesTotal *prometheus.CounterVec

	// WizardRejectionsTotal counts registration steps blocked by validation.
	// Label:
	//   - step: wizard step name (e.g. "ACADEMIC_INFO")
	WizardRejectionsTotal *prometheus.CounterVec

	// DashboardSectionsUnavailableTotal counts dashboard sections that
	// degraded to an empty value.
	// Labels:
	//   - dashboard: "admin" or "parent"
	//   - section: section name (e.g. "finance")
	DashboardSectionsUnavailableTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		BackendRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total number of requests sent to the school backend.",
			},
			[]string{"method", "route", "status"},
		),
		BackendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of school backend requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ForcedLogoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_logouts_total",
			Help:      "Total number of sessions ended because the backend rejected the credential.",
		}),
		ChatRepliesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_replies_total",
				Help:      "Total number of chat replies, by source.",
			},
			[]string{"source"},
		),
		WizardRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wizard_rejections_total",
				Help:      "Total number of registration wizard steps rejected by validation.",
			},
			[]string{"step"},
		),
		DashboardSectionsUnavailableTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_sections_unavailable_total",
				Help:      "Total number of dashboard sections served empty after a backend failure.",
			},
			[]string{"dashboard", "section"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.BackendRequestsTotal,
		m.BackendRequestDuration,
		m.ForcedLogoutsTotal,
		m.ChatRepliesTotal,
		m.WizardRejectionsTotal,
		m.DashboardSectionsUnavailableTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveBackend records a finished backend call. It is installed as the
// backend client's observer.
func (m *Metrics) ObserveBackend(call backend.Call) {
	status := "error"
	if call.Status != 0 {
		status = strconv.Itoa(call.Status)
	}
	m.BackendRequestsTotal.WithLabelValues(call.Method, call.Route, status).Inc()
	m.BackendRequestDuration.WithLabelValues(call.Method, call.Route).Observe(call.Duration.Seconds())
}

// ForcedLogout records a session ended because the backend rejected its
// credential. It is installed as the backend client's invalidation hook.
func (m *Metrics) ForcedLogout(string) {
	m.ForcedLogoutsTotal.Inc()
}

// SectionsUnavailable records degraded dashboard sections.
func (m *Metrics) SectionsUnavailable(dashboard string, sections []string) {
	for _, s := range sections {
		m.DashboardSectionsUnavailableTotal.WithLabelValues(dashboard, s).Inc()
	}
}
