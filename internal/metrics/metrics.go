// Package metrics содержит доменные счётчики Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics хранит счётчики событий жизненного цикла займов.
type Metrics struct {
	loansCreated          prometheus.Counter
	installmentsCollected prometheus.Counter
	loansCompleted        prometheus.Counter

	gatherer prometheus.Gatherer
}

// New регистрирует счётчики в отдельном реестре.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		loansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "loans_created_total",
			Help:      "Number of loans issued.",
		}),
		installmentsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "installments_collected_total",
			Help:      "Number of installments marked as collected.",
		}),
		loansCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "loans_completed_total",
			Help:      "Number of loans completed by collecting their last installment.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.loansCreated,
		m.installmentsCollected,
		m.loansCompleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// LoanCreated учитывает выдачу займа.
func (m *Metrics) LoanCreated() {
	m.loansCreated.Inc()
}

// InstallmentCollected учитывает приём платежа и, если он закрыл заём, завершение займа.
func (m *Metrics) InstallmentCollected(loanCompleted bool) {
	m.installmentsCollected.Inc()
	if loanCompleted {
		m.loansCompleted.Inc()
	}
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
