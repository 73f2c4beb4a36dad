package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const streamWriteTimeout = 5 * time.Second

// Stream pushes a snapshot on connect and after every state change until
// the client goes away or the session closes.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		h.Logger.Warn("websocket accept failed", zap.String("session_id", s.ID), zap.Error(err))
		return
	}
	defer c.CloseNow()

	ctx := c.CloseRead(r.Context())
	logger := h.Logger.With(zap.String("session_id", s.ID))

	for {
		changed := s.Changed()
		snap := s.Snapshot()

		wctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
		err := wsjson.Write(wctx, c, snap)
		cancel()
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Debug("stream write failed", zap.Error(err))
			}
			return
		}

		if snap.Closed {
			c.Close(websocket.StatusGoingAway, "session closed")
			return
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return
		}
	}
}
