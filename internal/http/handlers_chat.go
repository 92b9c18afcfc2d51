package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	applog "finbuddy/internal/log"
)

type chatExchange struct {
	Message string
	Reply   string
}

// handleChat answers with both bubbles after the typing delay. It is the
// fallback used when the browser cannot open an event stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	msg := p.Get("message")
	if strings.TrimSpace(msg) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	reply, err := s.chat.Respond(r.Context(), msg)
	s.metrics.Tool("chat", err)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.slog.LogError(r.Context(), "Chat reply failed", err, applog.ComponentChat, "respond", nil)
		}
		return
	}
	s.render(w, r, "chat_exchange", chatExchange{Message: msg, Reply: reply})
}

// handleChatStream streams the reply as server-sent events: "typing" first,
// then one "reveal" event per character, then "done".
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	msg := sanitizeInput(r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(event, data string) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if msg == "" {
		_ = send("done", "")
		return
	}
	if err := send("typing", ""); err != nil {
		return
	}
	reply, err := s.chat.Respond(ctx, msg)
	s.metrics.Tool("chat", err)
	if err != nil {
		applog.FromContext(ctx).DebugContext(ctx, "Chat stream cancelled", "error", err)
		return
	}
	if err := s.chat.Reveal(ctx, reply, func(partial string) error {
		return send("reveal", partial)
	}); err != nil {
		applog.FromContext(ctx).DebugContext(ctx, "Chat stream cancelled", "error", err)
		return
	}
	_ = send("done", reply)
}
