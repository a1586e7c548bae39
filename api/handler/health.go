package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/maxpoletaev/hax/api/model"
	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/halink"
	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/monitor"
)

// statusClientClosedRequest is the nginx code for a client that went away
// before the response was ready.
const statusClientClosedRequest = 499

type HealthHandler struct {
	monitor Monitor
}

func NewHealthHandler(m Monitor) *HealthHandler {
	return &HealthHandler{monitor: m}
}

func (api *HealthHandler) Register(r chi.Router) {
	r.Get("/health", api.getHealth)
	r.Get("/health/{fid}", api.getObjectHealth)
	r.Post("/health", api.setHealth)
}

func toModel(s health.HAState) model.State {
	m := model.State{
		Fid:       s.Fid.String(),
		Status:    s.Status.String(),
		NoteState: s.Status.NoteState().String(),
	}

	if typ, ok := s.Fid.Type(); ok {
		m.Type = typ.String()
	}

	return m
}

func (api *HealthHandler) getHealth(w http.ResponseWriter, r *http.Request) {
	states := api.monitor.States()
	resp := make([]model.State, len(states))

	for i, s := range states {
		resp[i] = toModel(s)
	}

	render.JSON(w, r, resp)
}

func (api *HealthHandler) getObjectHealth(w http.ResponseWriter, r *http.Request) {
	id, err := fid.Parse(chi.URLParam(r, "fid"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status, ok := api.monitor.Health(id)
	if !ok {
		http.Error(w, fmt.Sprintf("object %s is unknown", id), http.StatusNotFound)
		return
	}

	render.JSON(w, r, toModel(health.HAState{Fid: id, Status: status}))
}

func (api *HealthHandler) setHealth(w http.ResponseWriter, r *http.Request) {
	var params []model.SetHealthParams
	if err := render.DecodeJSON(r.Body, &params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(params) == 0 {
		http.Error(w, "no states given", http.StatusBadRequest)
		return
	}

	states := make([]health.HAState, len(params))

	for i, p := range params {
		id, err := fid.Parse(p.Fid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		status, err := health.ParseStatus(p.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		states[i] = health.HAState{Fid: id, Status: status}
	}

	if err := api.monitor.SetHealth(r.Context(), states...); err != nil {
		code := http.StatusInternalServerError

		switch {
		case errors.Is(err, monitor.ErrNullFid):
			code = http.StatusBadRequest
		case errors.Is(err, context.Canceled):
			code = statusClientClosedRequest
		case errors.Is(err, halink.ErrNotDelivered):
			code = http.StatusGatewayTimeout
		}

		http.Error(w, err.Error(), code)

		return
	}

	resp := model.SetHealthResponse{
		States: make([]model.State, len(states)),
	}

	for i, s := range states {
		resp.States[i] = toModel(s)
	}

	render.JSON(w, r, resp)
}
