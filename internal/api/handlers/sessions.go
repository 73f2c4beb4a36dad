package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bus-route-service/internal/api/dto"
	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/session"
)

// SessionHandler exposes route-editing sessions over REST.
type SessionHandler struct {
	Store     *session.Store
	Publisher ports.PayloadPublisher
	Logger    *zap.Logger

	// SettleTimeout bounds GET ?settle=true.
	SettleTimeout time.Duration
	// OriginPatterns are the hosts allowed to open the snapshot stream.
	OriginPatterns []string
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Store.Create()
	w.Header().Set("Location", "/sessions/"+s.ID)
	writeJSON(w, r, http.StatusCreated, s.Snapshot())
}

// Get returns the merged view. With ?settle=true it first waits for
// in-flight geocoding and routing to land, up to SettleTimeout; on timeout
// the unsettled snapshot is returned.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if settle, _ := strconv.ParseBool(r.URL.Query().Get("settle")); settle {
		h.settle(r, s)
	}

	writeJSON(w, r, http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.PathValue("id")); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	p, ok := decodePoint(w, r)
	if !ok {
		return
	}

	snap, err := s.AddWaypoint(p)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, snap)
}

func (h *SessionHandler) MoveWaypoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	p, ok := decodePoint(w, r)
	if !ok {
		return
	}

	snap, err := s.MoveWaypoint(index, p)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, snap)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	snap, err := s.Reset()
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (h *SessionHandler) SetEditing(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.EditingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Editing == nil {
		writeError(w, r, http.StatusBadRequest, "editing is required")
		return
	}

	snap, err := s.SetEditing(*req.Editing)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

// GeoJSON renders the route line and waypoint markers as a
// FeatureCollection.
func (h *SessionHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	snap := s.Snapshot()
	fc := domain.RouteFeatureCollection(snap.Route, snap.Waypoints, snap.Addresses)

	data, err := fc.MarshalJSON()
	if err != nil {
		h.Logger.Error("geojson encode failed", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Submit validates the line form against the current route and hands the
// assembled payload to the publisher. In-flight work is given up to
// SettleTimeout to land first.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.settle(r, s)

	payload, err := s.Payload(req)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}

	if err := h.Publisher.Publish(r.Context(), payload.Line.Number, payload); err != nil {
		h.Logger.Error("publish failed",
			zap.String("session_id", s.ID),
			zap.String("line", payload.Line.Number),
			zap.Error(err),
		)
		writeError(w, r, http.StatusBadGateway, "could not hand off line")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SubmitResponse{Status: "submitted", Payload: payload})
}

func (h *SessionHandler) settle(r *http.Request, s *session.Session) {
	timeout := h.SettleTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := s.Settle(ctx); err != nil {
		h.Logger.Debug("settle incomplete",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
	}
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return nil, false
	}
	return s, true
}

func decodePoint(w http.ResponseWriter, r *http.Request) (domain.LatLng, bool) {
	var req dto.PointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return domain.LatLng{}, false
	}

	p, ok := req.LatLng()
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat and lng are required")
		return domain.LatLng{}, false
	}
	if !p.Valid() {
		writeError(w, r, http.StatusBadRequest, "lat must be within [-90,90] and lng within [-180,180]")
		return domain.LatLng{}, false
	}
	return p, true
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *session.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:    "invalid line metadata",
			Problems: verr.Problems,
		})
	case errors.Is(err, session.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrIndexOutOfRange), errors.Is(err, session.ErrInvalidPoint):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrTooFewWaypoints), errors.Is(err, session.ErrClosed),
		errors.Is(err, session.ErrResolving):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		h.Logger.Error("session request failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
