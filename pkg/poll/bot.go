// Package poll orchestrates the survey: it classifies inbound events,
// applies stage transitions under per-identity locks, starts waves and
// exports completed records. Collaborator failures are logged and contained;
// nothing here panics or propagates an error out of the event flow.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/internal/metrics"
	"github.com/dmelnikov/healthwave/pkg/classify"
	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/machine"
	"github.com/dmelnikov/healthwave/pkg/ports"
	"github.com/dmelnikov/healthwave/pkg/session"
)

// Bot runs the survey over a chat transport.
type Bot struct {
	sessions   *session.Manager
	transport  ports.Transport
	profiles   ports.ProfileDirectory
	recipients ports.RecipientSource
	dispatcher *Dispatcher

	logger  *slog.Logger
	metrics *metrics.Set
	now     func() time.Time

	// wave is the single active wave. Handlers snapshot it once per event,
	// so a wave started mid-handler cannot redirect an in-flight event.
	wave atomic.Pointer[domain.Wave]
}

// BotOption configures the Bot.
type BotOption func(*Bot)

// WithLogger configures the bot logger.
func WithLogger(logger *slog.Logger) BotOption {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithMetrics configures the counter set.
func WithMetrics(set *metrics.Set) BotOption {
	return func(b *Bot) {
		b.metrics = set
	}
}

// WithClock replaces the wave-date clock (tests).
func WithClock(now func() time.Time) BotOption {
	return func(b *Bot) {
		b.now = now
	}
}

// NewBot wires the orchestrator to its collaborators.
func NewBot(
	sessions *session.Manager,
	transport ports.Transport,
	profiles ports.ProfileDirectory,
	recipients ports.RecipientSource,
	dispatcher *Dispatcher,
	opts ...BotOption,
) *Bot {
	b := &Bot{
		sessions:   sessions,
		transport:  transport,
		profiles:   profiles,
		recipients: recipients,
		dispatcher: dispatcher,
		logger:     logging.NewNop(),
		metrics:    metrics.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CurrentWave returns the active wave, or nil before the first start.
func (b *Bot) CurrentWave() *domain.Wave {
	return b.wave.Load()
}

// HandleEvent processes one inbound chat event end to end.
func (b *Bot) HandleEvent(ctx context.Context, in domain.Inbound) {
	ev := classify.Classify(in.Text, in.Payload)
	if ev == nil {
		b.metrics.EventsDropped.Inc()
		return
	}

	if cmd, ok := ev.(domain.StartCommand); ok {
		b.StartWave(ctx, in.Sender, cmd.IDsPath, cmd.SheetURL)
		return
	}

	wave := b.wave.Load()
	if wave == nil {
		b.metrics.EventsDropped.Inc()
		return
	}
	b.advance(ctx, *wave, in.Sender, ev)
}

// advance applies one classified event to the sender's record for the wave.
// The whole pass, collaborator calls included, runs under the identity lock
// so two events from one respondent cannot race their read-modify-write.
func (b *Bot) advance(ctx context.Context, wave domain.Wave, identity string, ev domain.Event) {
	err := b.sessions.WithLock(ctx, identity, func(ctx context.Context) error {
		store := b.sessions.Store()

		rec, err := store.Load(ctx, identity, wave.Date)
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Not enrolled in this wave: stale or unknown respondent.
			b.metrics.EventsDropped.Inc()
			return nil
		}
		if err != nil {
			return err
		}

		step := machine.Apply(*rec, ev)
		if !step.Applied {
			return nil
		}
		if err := store.Save(ctx, identity, wave.Date, &step.Record); err != nil {
			return err
		}

		if step.Completed {
			b.metrics.Completions.Inc()
			b.export(ctx, identity, step.Record, wave)
		}
		if step.Reply != nil {
			b.send(ctx, identity, *step.Reply)
		}
		return nil
	})
	if err != nil {
		b.logger.Error("event handling failed", "identity", identity, "err", err)
	}
}

// export resolves the respondent's display name and dispatches the row.
// The record is already done; a lookup failure falls back to the raw
// identity and neither outcome is retried.
func (b *Bot) export(ctx context.Context, identity string, rec domain.Record, wave domain.Wave) {
	name := identity
	profile, err := b.profiles.Resolve(ctx, identity)
	if err != nil {
		b.logger.Warn("profile lookup failed, exporting raw identity", "identity", identity, "err", err)
	} else {
		name = profile.DisplayName()
	}

	switch b.dispatcher.Dispatch(ctx, name, rec, wave) {
	case Exported:
		b.metrics.Exports.Inc()
	case SinkFailed:
		b.metrics.ExportFailures.Inc()
	}
}

// StartWave enrolls every identity in the list into a fresh wave and sends
// each the opening prompt. A list read failure aborts before any mutation;
// per-recipient delivery failures are logged and the broadcast continues.
func (b *Bot) StartWave(ctx context.Context, operator, idsPath, sheetURL string) (*domain.Wave, error) {
	ids, err := b.recipients.ReadLines(idsPath)
	if err != nil {
		b.logger.Error("wave start aborted", "path", idsPath, "err", err)
		b.send(ctx, operator, machine.Prompt{Text: err.Error()})
		return nil, err
	}

	wave := &domain.Wave{
		Date:     b.now().Format("2006-01-02"),
		SheetURL: sheetURL,
	}
	b.wave.Store(wave)
	b.metrics.WavesStarted.Inc()
	b.logger.Info("wave started", "date", wave.Date, "recipients", len(ids))

	opening := machine.Opening()
	for _, identity := range ids {
		if err := b.sessions.Save(ctx, identity, wave.Date, domain.NewRecord()); err != nil {
			b.logger.Error("failed to enroll recipient", "identity", identity, "err", err)
			continue
		}
		b.metrics.RecipientsEnrolled.Inc()
		b.send(ctx, identity, opening)
	}
	return wave, nil
}

// send delivers one prompt, absorbing delivery failures.
func (b *Bot) send(ctx context.Context, recipient string, p machine.Prompt) {
	msg := domain.Outbound{
		Recipient: recipient,
		Text:      p.Text,
		Keyboard:  p.Keyboard,
	}
	if err := b.transport.Send(ctx, msg); err != nil {
		b.metrics.SendFailures.Inc()
		b.logger.Warn("delivery failed", "identity", recipient, "err", err)
		return
	}
	b.metrics.PromptsSent.Inc()
}
