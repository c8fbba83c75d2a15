package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	"github.com/johncabili/portfolio/backend/internal/model/chat"
	"github.com/johncabili/portfolio/backend/internal/service/responder"
)

// widget is the per-session state machine. Fields are guarded by mu; timer callbacks re-check the generation counters
// so a callback that lost the race with Close or Reset is a no-op.
type widget struct {
	mu      sync.Mutex
	svc     *Service
	session chat.Session

	state    chat.State
	messages []chat.Message
	seq      int64
	topic    chat.Topic
	muted    bool

	queue     []string
	typing    Timer
	typingGen uint64

	effects   map[uint64]Timer
	effectSeq uint64
	effectGen uint64
	ended     bool
}

func newWidget(svc *Service, session chat.Session, open bool) *widget {
	w := &widget{
		svc:     svc,
		session: session,
		state:   chat.StateClosed,
		effects: make(map[uint64]Timer),
	}
	if open {
		w.state = chat.StateOpenIdle
	}
	w.messages = []chat.Message{w.nextMessage(svc.profile.Greeting, true)}
	return w
}

func (w *widget) nextMessage(text string, isBot bool) chat.Message {
	w.seq++
	return chat.Message{ID: w.seq, Text: text, IsBot: isBot, Timestamp: w.svc.now()}
}

func (w *widget) publish(typ EventType, data any) {
	w.svc.broker.Publish(Event{Type: typ, SessionID: w.session.ID, Data: data})
}

func (w *widget) snapshotLocked() chat.Snapshot {
	return chat.Snapshot{
		Session:        w.session,
		State:          w.state,
		Messages:       append([]chat.Message(nil), w.messages...),
		Topic:          w.topic,
		ContextReplies: assistant.ContextReplies(w.topic),
		QuickReplies:   assistant.InitialQuickReplies(),
		Muted:          w.muted,
		Pending:        len(w.queue),
	}
}

func (w *widget) setStateLocked(state chat.State, reason string) {
	if w.state == state {
		return
	}
	prev := w.state
	w.state = state
	w.publish(EventState, StateChange{State: state, Reason: reason})

	if state == chat.StateOpenTyping {
		w.publish(EventTyping, Typing{Typing: true})
	} else if prev == chat.StateOpenTyping {
		w.publish(EventTyping, Typing{Typing: false})
	}
}

func (w *widget) appendLocked(ctx context.Context, text string, isBot bool) chat.Message {
	msg := w.nextMessage(text, isBot)
	w.messages = chat.Truncate(append(w.messages, msg), w.svc.cfg.MaxMessages)
	w.publish(EventMessage, msg)
	if !w.muted {
		w.publish(EventSound, Sound{URL: w.svc.profile.SoundURL, Volume: w.svc.profile.SoundVolume})
	}
	w.svc.recorder.Message(ctx, isBot)
	return msg
}

func (w *widget) open(reason string) {
	if w.ended || w.state.Open() {
		return
	}
	w.setStateLocked(chat.StateOpenIdle, reason)
}

func (w *widget) close(reason string) {
	if !w.state.Open() {
		return
	}
	w.cancelTypingLocked()
	w.setStateLocked(chat.StateClosed, reason)
}

func (w *widget) send(ctx context.Context, text string) error {
	if w.ended {
		return ErrSessionNotFound
	}
	if !w.state.Open() {
		return ErrWidgetClosed
	}

	w.appendLocked(ctx, text, false)
	w.queue = append(w.queue, text)
	if w.state != chat.StateOpenTyping {
		w.startTypingLocked(ctx)
	}
	return nil
}

func (w *widget) startTypingLocked(ctx context.Context) {
	delay := w.svc.typingDelay()
	w.svc.recorder.TypingDelay(ctx, delay)
	w.setStateLocked(chat.StateOpenTyping, "reply")

	w.typingGen++
	gen := w.typingGen
	w.typing = w.svc.scheduler.AfterFunc(delay, func() {
		w.svc.completeTyping(w, gen)
	})
}

func (w *widget) completeTypingLocked(ctx context.Context, gen uint64) {
	if w.ended || gen != w.typingGen || w.state != chat.StateOpenTyping || len(w.queue) == 0 {
		return
	}

	input := w.queue[0]
	w.queue = w.queue[1:]
	w.typing = nil

	reply := w.svc.respond(ctx, input)
	w.appendLocked(ctx, reply.Text, true)

	if reply.Retopic {
		w.topic = reply.Topic
		w.publish(EventQuickReplies, QuickReplies{Topic: w.topic, Replies: assistant.ContextReplies(w.topic)})
	}
	for _, effect := range reply.Effects {
		w.scheduleEffectLocked(ctx, effect)
	}

	if len(w.queue) > 0 {
		w.startTypingLocked(ctx)
		return
	}
	w.setStateLocked(chat.StateOpenIdle, "replied")
}

func (w *widget) scheduleEffectLocked(ctx context.Context, effect responder.Effect) {
	if effect.Delay <= 0 {
		w.fireEffectLocked(ctx, effect)
		return
	}

	w.effectSeq++
	id, gen := w.effectSeq, w.effectGen
	w.effects[id] = w.svc.scheduler.AfterFunc(effect.Delay, func() {
		w.svc.fireEffect(w, id, gen, effect)
	})
}

func (w *widget) fireEffectLocked(ctx context.Context, effect responder.Effect) {
	w.publish(EventEffect, effect)
	w.svc.recorder.Effect(ctx, string(effect.Kind))
	w.svc.logger.Debug("side effect delivered",
		zap.String("session_id", w.session.ID),
		zap.String("kind", string(effect.Kind)),
		zap.String("template", string(effect.Template)),
		zap.String("path", effect.Path))
}

func (w *widget) cancelTypingLocked() {
	w.typingGen++
	if w.typing != nil {
		w.typing.Stop()
		w.typing = nil
	}
	w.queue = nil
}

func (w *widget) cancelEffectsLocked() {
	w.effectGen++
	for id, t := range w.effects {
		t.Stop()
		delete(w.effects, id)
	}
}

func (w *widget) reset() {
	w.cancelTypingLocked()
	w.cancelEffectsLocked()

	w.messages = []chat.Message{w.nextMessage(w.svc.profile.Greeting, true)}
	w.topic = chat.TopicNone
	if w.state == chat.StateOpenTyping {
		w.setStateLocked(chat.StateOpenIdle, "reset")
	}
	w.publish(EventReset, w.snapshotLocked())
}

func (w *widget) end() {
	w.cancelTypingLocked()
	w.cancelEffectsLocked()
	w.state = chat.StateClosed
	w.ended = true
}

func (w *widget) pendingEffects() int {
	return len(w.effects)
}
