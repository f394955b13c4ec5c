// Package metrics содержит счётчики жизненного цикла сессий (Prometheus).
//
// Все методы Recorder безопасны для nil-получателя: если метрики выключены
// в конфиге, в сервисы передаётся nil и вызовы ничего не делают.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Причины выпуска пары токенов.
const (
	ReasonIssue   = "issue" // вход или регистрация
	ReasonRefresh = "refresh"
)

// Результаты входа.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

type Recorder struct {
	registry *prometheus.Registry

	issued        *prometheus.CounterVec
	refreshReject *prometheus.CounterVec
	tokenReject   *prometheus.CounterVec
	signIn        *prometheus.CounterVec
}

// New создаёт Recorder со своим реестром (без глобального DefaultRegisterer).
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_token_pairs_issued_total",
			Help: "Token pairs issued, by reason.",
		}, []string{"reason"}),
		refreshReject: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_refresh_rejected_total",
			Help: "Rejected refresh attempts, by reason.",
		}, []string{"reason"}),
		tokenReject: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_token_rejected_total",
			Help: "Rejected access tokens, by reason.",
		}, []string{"reason"}),
		signIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_sign_in_total",
			Help: "Sign-in attempts, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.issued, r.refreshReject, r.tokenReject, r.signIn,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) TokenPairIssued(reason string) {
	if r == nil {
		return
	}
	r.issued.WithLabelValues(reason).Inc()
}

func (r *Recorder) RefreshRejected(reason string) {
	if r == nil {
		return
	}
	r.refreshReject.WithLabelValues(reason).Inc()
}

func (r *Recorder) TokenRejected(reason string) {
	if r == nil {
		return
	}
	r.tokenReject.WithLabelValues(reason).Inc()
}

func (r *Recorder) SignIn(result string) {
	if r == nil {
		return
	}
	r.signIn.WithLabelValues(result).Inc()
}

// Registry отдаёт реестр (для тестов и дополнительных коллекторов).
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
