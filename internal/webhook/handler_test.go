package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/examops/checkbot/internal/checklist/domain"
	"github.com/examops/checkbot/internal/checklist/engine"
	"github.com/examops/checkbot/internal/checklist/render"
)

type fakeProcessor struct {
	lastEvent domain.Event
	calls     int
	outcome   engine.Outcome
}

func (p *fakeProcessor) Process(ctx context.Context, event domain.Event) engine.Outcome {
	p.calls++
	p.lastEvent = event
	return p.outcome
}

type recordingNotifier struct {
	sessionID string
	text      string
}

func (n *recordingNotifier) Send(ctx context.Context, sessionID, text string) error {
	n.sessionID = sessionID
	n.text = text
	return nil
}

func newTestHandler(processor *fakeProcessor, notifier *recordingNotifier) http.Handler {
	mux := http.NewServeMux()
	NewHandler(processor, notifier, render.NewPrinter("pt-BR")).RegisterRoutes(mux)
	return mux
}

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookTextMessage(t *testing.T) {
	processor := &fakeProcessor{outcome: engine.Outcome{Kind: engine.OutcomeStarted, Day: domain.Day1, Next: "envelope_sala_dia1"}}
	notifier := &recordingNotifier{}
	handler := newTestHandler(processor, notifier)

	rec := post(t, handler, `{
		"event": "messages.upsert",
		"data": {
			"key": {"remoteJid": "5511999990000@s.whatsapp.net", "fromMe": false},
			"messageTimestamp": 1767945600,
			"message": {"conversation": "iniciar checklist dia 1"}
		}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if processor.lastEvent.Kind != domain.EventText || processor.lastEvent.Text != "iniciar checklist dia 1" {
		t.Fatalf("event = %+v", processor.lastEvent)
	}
	if processor.lastEvent.SessionID != "5511999990000@s.whatsapp.net" {
		t.Fatalf("SessionID = %q", processor.lastEvent.SessionID)
	}
	if notifier.sessionID != processor.lastEvent.SessionID {
		t.Fatalf("reply sent to %q", notifier.sessionID)
	}
	if !strings.Contains(notifier.text, "dia 1") {
		t.Fatalf("reply = %q, want rendered start message", notifier.text)
	}
}

func TestWebhookImageSubmission(t *testing.T) {
	processor := &fakeProcessor{outcome: engine.Outcome{Kind: engine.OutcomeItemAccepted, Item: "envelope_sala_dia1", Next: "lista_presenca_dia1"}}
	notifier := &recordingNotifier{}
	handler := newTestHandler(processor, notifier)

	post(t, handler, `{
		"event": "messages.upsert",
		"data": {
			"key": {"remoteJid": "5511999990000@s.whatsapp.net"},
			"message": {"imageMessage": {"url": "https://media.example/a.jpg", "caption": "envelope_sala_dia1"}}
		}
	}`)
	if processor.lastEvent.Kind != domain.EventItemSubmission {
		t.Fatalf("Kind = %v, want submission", processor.lastEvent.Kind)
	}
	if processor.lastEvent.ItemCaption != "envelope_sala_dia1" || processor.lastEvent.PayloadRef != "https://media.example/a.jpg" {
		t.Fatalf("event = %+v", processor.lastEvent)
	}
}

func TestWebhookExtendedTextMessage(t *testing.T) {
	processor := &fakeProcessor{outcome: engine.Outcome{Kind: engine.OutcomeUnrecognized}}
	handler := newTestHandler(processor, &recordingNotifier{})

	post(t, handler, `{
		"event": "messages.upsert",
		"data": {
			"key": {"remoteJid": "5511999990000@s.whatsapp.net"},
			"message": {"extendedTextMessage": {"text": "o que falta?"}}
		}
	}`)
	if processor.lastEvent.Text != "o que falta?" {
		t.Fatalf("Text = %q", processor.lastEvent.Text)
	}
}

func TestWebhookIgnoresOwnMessages(t *testing.T) {
	processor := &fakeProcessor{}
	handler := newTestHandler(processor, &recordingNotifier{})

	rec := post(t, handler, `{
		"event": "messages.upsert",
		"data": {
			"key": {"remoteJid": "5511999990000@s.whatsapp.net", "fromMe": true},
			"message": {"conversation": "oi"}
		}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if processor.calls != 0 {
		t.Fatal("engine invoked for own message")
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	processor := &fakeProcessor{}
	handler := newTestHandler(processor, &recordingNotifier{})

	post(t, handler, `{"event": "connection.update", "data": {}}`)
	if processor.calls != 0 {
		t.Fatal("engine invoked for non-upsert event")
	}
}

func TestWebhookMalformedBodyStillAcknowledged(t *testing.T) {
	processor := &fakeProcessor{}
	handler := newTestHandler(processor, &recordingNotifier{})

	rec := post(t, handler, `{not json`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if processor.calls != 0 {
		t.Fatal("engine invoked for malformed body")
	}
}

func TestWebhookHealth(t *testing.T) {
	handler := newTestHandler(&fakeProcessor{}, &recordingNotifier{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
