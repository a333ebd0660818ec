// Package engine implements the checklist progression state machine. It owns
// every state transition; the transport and rendering layers never touch the
// store directly.
package engine

import (
	"context"
	"errors"
	"log"
	"net/url"
	"path"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/examops/checkbot/internal/checklist/catalog"
	"github.com/examops/checkbot/internal/checklist/classifier"
	"github.com/examops/checkbot/internal/checklist/domain"
	"github.com/examops/checkbot/internal/checklist/media"
	"github.com/examops/checkbot/internal/checklist/progress"
	"github.com/examops/checkbot/internal/checklist/storage"
	"github.com/examops/checkbot/internal/platform/id"
)

// Config carries the engine's collaborators. Catalog, Store, Photos,
// Classifier and Fetcher are required; the rest default.
type Config struct {
	Catalog    *catalog.Catalog
	Store      storage.Store
	Photos     storage.PhotoStore
	Tracker    *progress.Tracker
	Classifier classifier.Classifier
	Fetcher    media.Fetcher
	Now        func() time.Time
	NewID      func() (string, error)
}

// Engine processes inbound events against the durable checklist state.
// Events for the same session are serialized; distinct sessions proceed
// concurrently.
type Engine struct {
	catalog    *catalog.Catalog
	store      storage.Store
	photos     storage.PhotoStore
	tracker    *progress.Tracker
	classifier classifier.Classifier
	fetcher    media.Fetcher
	now        func() time.Time
	newID      func() (string, error)
	tracer     trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds an engine from its collaborators.
func New(cfg Config) *Engine {
	if cfg.Tracker == nil {
		cfg.Tracker = progress.NewTracker()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	return &Engine{
		catalog:    cfg.Catalog,
		store:      cfg.Store,
		photos:     cfg.Photos,
		tracker:    cfg.Tracker,
		classifier: cfg.Classifier,
		fetcher:    cfg.Fetcher,
		now:        cfg.Now,
		newID:      cfg.NewID,
		tracer:     otel.Tracer("checkbot/engine"),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Process handles one inbound event and always yields a reply-worthy outcome.
// Collaborator failures fold into OutcomeTryAgain without consuming checklist
// position, so resubmitting the same message is always safe.
func (e *Engine) Process(ctx context.Context, event domain.Event) Outcome {
	ctx, span := e.tracer.Start(ctx, "engine.Process")
	defer span.End()

	if event.SessionID == "" {
		return Outcome{Kind: OutcomeUnrecognized}
	}

	unlock := e.lockSession(event.SessionID)
	defer unlock()

	switch event.Kind {
	case domain.EventItemSubmission:
		return e.submitItem(ctx, event)
	case domain.EventText:
		return e.handleText(ctx, event)
	default:
		return Outcome{Kind: OutcomeUnrecognized}
	}
}

func (e *Engine) lockSession(sessionID string) func() {
	e.mu.Lock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	e.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (e *Engine) handleText(ctx context.Context, event domain.Event) Outcome {
	active, hasActive := e.activeProgress(ctx, event.SessionID)
	activeDay := active.Day
	if !hasActive {
		activeDay = domain.Day1
	}

	cmd, err := e.classifier.Classify(ctx, event.Text, activeDay)
	if err != nil {
		log.Printf("classify failed session=%s err=%v", event.SessionID, err)
		return Outcome{Kind: OutcomeUnrecognized}
	}

	switch cmd.Kind {
	case domain.CommandStartDay:
		return e.start(ctx, event.SessionID, cmd.Day)
	case domain.CommandMarkItems:
		return e.markItems(ctx, event.SessionID, cmd.Items, cmd.Note)
	case domain.CommandListMissing:
		return e.listMissing(ctx, event.SessionID)
	case domain.CommandRestart:
		return e.restart(ctx, event.SessionID)
	default:
		return Outcome{Kind: OutcomeUnrecognized}
	}
}

// activeProgress resolves the session's place, reconstructing from the
// durable record when the in-memory entry was lost to a restart. The
// reconstructed position is the record's confirmed prefix.
func (e *Engine) activeProgress(ctx context.Context, sessionID string) (progress.Progress, bool) {
	if entry, ok := e.tracker.Get(sessionID); ok {
		return entry, true
	}
	for _, day := range []domain.Day{domain.Day1, domain.Day2} {
		record, err := e.store.GetRecord(ctx, sessionID, day)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("load record failed session=%s day=%d err=%v", sessionID, day, err)
			continue
		}
		if record.Status == domain.StatusCompleted {
			continue
		}
		entry := progress.Progress{Day: day, NextIndex: record.ConfirmedPrefix()}
		e.tracker.Set(sessionID, entry)
		return entry, true
	}
	return progress.Progress{}, false
}

func (e *Engine) start(ctx context.Context, sessionID string, day domain.Day) Outcome {
	if day != domain.Day1 && day != domain.Day2 {
		return Outcome{Kind: OutcomeUnrecognized}
	}
	template := e.catalog.Template(day)

	err := e.store.CreateRecord(ctx, sessionID, day, template, e.now())
	switch {
	case errors.Is(err, storage.ErrConflict):
		record, err := e.store.GetRecord(ctx, sessionID, day)
		if err != nil {
			log.Printf("load record failed session=%s day=%d err=%v", sessionID, day, err)
			return Outcome{Kind: OutcomeTryAgain}
		}
		if record.Status == domain.StatusCompleted {
			return Outcome{Kind: OutcomeAlreadyStarted, Day: day}
		}
		prefix := record.ConfirmedPrefix()
		e.tracker.Set(sessionID, progress.Progress{Day: day, NextIndex: prefix})
		next := ""
		if prefix < len(template) {
			next = template[prefix]
		}
		return Outcome{Kind: OutcomeAlreadyStarted, Day: day, Next: next}
	case err != nil:
		log.Printf("create record failed session=%s day=%d err=%v", sessionID, day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}

	e.tracker.Set(sessionID, progress.Progress{Day: day, NextIndex: 0})
	return Outcome{Kind: OutcomeStarted, Day: day, Next: template[0]}
}

func (e *Engine) submitItem(ctx context.Context, event domain.Event) Outcome {
	active, ok := e.activeProgress(ctx, event.SessionID)
	if !ok {
		return Outcome{Kind: OutcomeNoActiveChecklist}
	}
	template := e.catalog.Template(active.Day)
	if active.NextIndex >= len(template) {
		e.tracker.Delete(event.SessionID)
		return Outcome{Kind: OutcomeNoActiveChecklist}
	}

	expected := template[active.NextIndex]
	submitted := catalog.NormalizeKey(event.ItemCaption)
	if submitted != expected {
		return Outcome{Kind: OutcomeWrongItem, Day: active.Day, Expected: expected}
	}

	photoRef, outcome := e.persistPhoto(ctx, event, expected)
	if outcome != nil {
		return *outcome
	}

	if err := e.store.ConfirmItem(ctx, event.SessionID, active.Day, expected, photoRef); err != nil {
		log.Printf("confirm item failed session=%s day=%d item=%s err=%v", event.SessionID, active.Day, expected, err)
		return Outcome{Kind: OutcomeTryAgain}
	}

	// Items marked over free text may already be confirmed ahead of the
	// sequential position, so completion and the next expected item are
	// read back from the record rather than derived from the counter.
	record, err := e.store.GetRecord(ctx, event.SessionID, active.Day)
	if err != nil {
		log.Printf("load record failed session=%s day=%d err=%v", event.SessionID, active.Day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}
	if len(record.Missing()) == 0 {
		completedAt := e.now()
		if err := e.store.SetStatus(ctx, event.SessionID, active.Day, domain.StatusCompleted, &completedAt); err != nil {
			log.Printf("complete record failed session=%s day=%d err=%v", event.SessionID, active.Day, err)
			return Outcome{Kind: OutcomeTryAgain}
		}
		e.tracker.Delete(event.SessionID)
		return Outcome{Kind: OutcomeCompleted, Day: active.Day, Item: expected}
	}

	if err := e.store.SetStatus(ctx, event.SessionID, active.Day, domain.StatusInProgress, nil); err != nil {
		log.Printf("set status failed session=%s day=%d err=%v", event.SessionID, active.Day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}
	next := record.ConfirmedPrefix()
	e.tracker.Set(event.SessionID, progress.Progress{Day: active.Day, NextIndex: next})
	return Outcome{Kind: OutcomeItemAccepted, Day: active.Day, Item: expected, Next: template[next]}
}

// persistPhoto downloads and stores the submission's photo. A nil outcome
// means the caller may proceed with photoRef as the stored photo's id. A
// submission without a payload reference never confirms an item; the record
// exists to hold photographic evidence.
func (e *Engine) persistPhoto(ctx context.Context, event domain.Event, itemKey string) (string, *Outcome) {
	if event.PayloadRef == "" {
		log.Printf("submission without payload session=%s item=%s", event.SessionID, itemKey)
		return "", &Outcome{Kind: OutcomeTryAgain}
	}
	content, err := e.fetcher.Fetch(ctx, event.PayloadRef)
	if err != nil {
		log.Printf("fetch photo failed session=%s item=%s err=%v", event.SessionID, itemKey, err)
		return "", &Outcome{Kind: OutcomeTryAgain}
	}
	photoID, err := e.newID()
	if err != nil {
		log.Printf("new photo id failed session=%s err=%v", event.SessionID, err)
		return "", &Outcome{Kind: OutcomeTryAgain}
	}
	photo := storage.Photo{
		ID:        photoID,
		SessionID: event.SessionID,
		ItemKey:   itemKey,
		FileName:  photoFileName(event.PayloadRef, itemKey),
		Content:   content,
		CreatedAt: e.now(),
	}
	if err := e.photos.PutPhoto(ctx, photo); err != nil {
		log.Printf("store photo failed session=%s item=%s err=%v", event.SessionID, itemKey, err)
		return "", &Outcome{Kind: OutcomeTryAgain}
	}
	return photoID, nil
}

func photoFileName(payloadRef, itemKey string) string {
	if u, err := url.Parse(payloadRef); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return itemKey + ".jpg"
}

func (e *Engine) markItems(ctx context.Context, sessionID string, items []string, note string) Outcome {
	active, ok := e.activeProgress(ctx, sessionID)
	if !ok {
		return Outcome{Kind: OutcomeNoActiveChecklist}
	}

	marked := make([]string, 0, len(items))
	unknown := make([]string, 0)
	for _, item := range items {
		key := catalog.NormalizeKey(item)
		if !e.catalog.Contains(active.Day, key) {
			unknown = append(unknown, item)
			continue
		}
		if err := e.store.ConfirmItem(ctx, sessionID, active.Day, key, ""); err != nil {
			log.Printf("mark item failed session=%s day=%d item=%s err=%v", sessionID, active.Day, key, err)
			return Outcome{Kind: OutcomeTryAgain}
		}
		if note != "" {
			if err := e.store.SetItemNote(ctx, sessionID, active.Day, key, note); err != nil {
				log.Printf("set item note failed session=%s day=%d item=%s err=%v", sessionID, active.Day, key, err)
				return Outcome{Kind: OutcomeTryAgain}
			}
		}
		marked = append(marked, key)
	}

	record, err := e.store.GetRecord(ctx, sessionID, active.Day)
	if err != nil {
		log.Printf("load record failed session=%s day=%d err=%v", sessionID, active.Day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}
	if len(record.Missing()) == 0 {
		completedAt := e.now()
		if err := e.store.SetStatus(ctx, sessionID, active.Day, domain.StatusCompleted, &completedAt); err != nil {
			log.Printf("complete record failed session=%s day=%d err=%v", sessionID, active.Day, err)
			return Outcome{Kind: OutcomeTryAgain}
		}
		e.tracker.Delete(sessionID)
		return Outcome{Kind: OutcomeCompleted, Day: active.Day, Marked: marked, Unknown: unknown}
	}

	if len(marked) > 0 {
		if err := e.store.SetStatus(ctx, sessionID, active.Day, domain.StatusInProgress, nil); err != nil {
			log.Printf("set status failed session=%s day=%d err=%v", sessionID, active.Day, err)
			return Outcome{Kind: OutcomeTryAgain}
		}
	}
	// Marked items may extend the confirmed prefix, so the sequential
	// position skips everything already confirmed.
	e.tracker.Set(sessionID, progress.Progress{Day: active.Day, NextIndex: record.ConfirmedPrefix()})
	return Outcome{Kind: OutcomeItemsMarked, Day: active.Day, Marked: marked, Unknown: unknown}
}

func (e *Engine) listMissing(ctx context.Context, sessionID string) Outcome {
	active, ok := e.activeProgress(ctx, sessionID)
	if !ok {
		return Outcome{Kind: OutcomeNoActiveChecklist}
	}
	record, err := e.store.GetRecord(ctx, sessionID, active.Day)
	if err != nil {
		log.Printf("load record failed session=%s day=%d err=%v", sessionID, active.Day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}
	return Outcome{Kind: OutcomeMissingItems, Day: active.Day, Missing: record.Missing()}
}

func (e *Engine) restart(ctx context.Context, sessionID string) Outcome {
	active, ok := e.activeProgress(ctx, sessionID)
	if !ok {
		// Nothing to wipe; treat the request as starting over from day one.
		return e.start(ctx, sessionID, domain.Day1)
	}
	if err := e.store.ResetRecord(ctx, sessionID, active.Day); err != nil {
		log.Printf("reset record failed session=%s day=%d err=%v", sessionID, active.Day, err)
		return Outcome{Kind: OutcomeTryAgain}
	}
	e.tracker.Set(sessionID, progress.Progress{Day: active.Day, NextIndex: 0})
	return Outcome{Kind: OutcomeRestarted, Day: active.Day, Next: e.catalog.Template(active.Day)[0]}
}
