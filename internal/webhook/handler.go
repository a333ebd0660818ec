// Package webhook adapts inbound messaging-provider callbacks to checklist
// events. The provider retries on non-2xx replies, so every handled request
// is acknowledged with a 200-series response even when the message is
// ignored.
package webhook

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/examops/checkbot/internal/checklist/domain"
	"github.com/examops/checkbot/internal/checklist/engine"
	"github.com/examops/checkbot/internal/checklist/notify"
	"github.com/examops/checkbot/internal/checklist/render"
)

// Processor handles one checklist event and always yields an outcome.
type Processor interface {
	Process(ctx context.Context, event domain.Event) engine.Outcome
}

// Handler receives provider webhooks and drives the checklist engine.
type Handler struct {
	engine    Processor
	notifier  notify.Notifier
	localizer render.Localizer
}

// NewHandler builds a webhook handler over the engine and reply notifier.
func NewHandler(eng Processor, notifier notify.Notifier, localizer render.Localizer) *Handler {
	return &Handler{engine: eng, notifier: notifier, localizer: localizer}
}

// RegisterRoutes attaches the webhook endpoints to a mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", h.handleWebhook)
	mux.HandleFunc("/healthz", h.handleHealth)
}

// upsertPayload is the provider's messages.upsert callback shape. Only the
// fields the checklist needs are decoded.
type upsertPayload struct {
	Event string `json:"event"`
	Data  struct {
		Key struct {
			RemoteJID string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
		} `json:"key"`
		MessageTimestamp int64 `json:"messageTimestamp"`
		Message          struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage *struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
			ImageMessage *struct {
				URL     string `json:"url"`
				Caption string `json:"caption"`
			} `json:"imageMessage"`
		} `json:"message"`
	} `json:"data"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"status": "method not allowed"})
		return
	}

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": "malformed payload"})
		return
	}

	event, ok := eventFromPayload(payload)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	outcome := h.engine.Process(r.Context(), event)
	reply := render.Render(h.localizer, outcome)
	if err := h.notifier.Send(r.Context(), event.SessionID, reply); err != nil {
		log.Printf("send reply failed session=%s err=%v", event.SessionID, err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// eventFromPayload maps one callback to a checklist event. Messages sent by
// the bot itself and event types other than messages.upsert are ignored.
func eventFromPayload(payload upsertPayload) (domain.Event, bool) {
	if !strings.EqualFold(strings.TrimSpace(payload.Event), "messages.upsert") {
		return domain.Event{}, false
	}
	if payload.Data.Key.FromMe {
		return domain.Event{}, false
	}
	sessionID := strings.TrimSpace(payload.Data.Key.RemoteJID)
	if sessionID == "" {
		return domain.Event{}, false
	}

	if image := payload.Data.Message.ImageMessage; image != nil {
		return domain.Event{
			SessionID:   sessionID,
			Kind:        domain.EventItemSubmission,
			ItemCaption: image.Caption,
			PayloadRef:  image.URL,
		}, true
	}

	text := strings.TrimSpace(payload.Data.Message.Conversation)
	if text == "" && payload.Data.Message.ExtendedTextMessage != nil {
		text = strings.TrimSpace(payload.Data.Message.ExtendedTextMessage.Text)
	}
	if text == "" {
		return domain.Event{}, false
	}
	return domain.Event{SessionID: sessionID, Kind: domain.EventText, Text: text}, true
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode webhook response: %v", err)
	}
}
