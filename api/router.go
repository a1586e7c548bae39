package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxpoletaev/hax/api/handler"
)

// CreateRouter builds the HTTP API. Metrics are served from gatherer if it is
// not nil.
func CreateRouter(m handler.Monitor, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	handler.NewHealthHandler(m).Register(r)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
