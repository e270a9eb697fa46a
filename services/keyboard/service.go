package keyboard

import (
	"context"
	"log/slog"
	"time"

	"kbdcore-go/bus"
	"kbdcore-go/errcode"
	kbdlog "kbdcore-go/internal/log"
	"kbdcore-go/types"
)

var (
	TopicState   = bus.T("hal", "keyboard", "state")
	TopicStatus  = bus.T("hal", "keyboard", "status")
	TopicGet     = bus.T("hal", "keyboard", "get")
	TopicCapsSet = bus.T("hal", "keyboard", "caps", "set")
)

const DefaultInterval = 10 * time.Millisecond

type ServiceConfig struct {
	Interval time.Duration // 0 => DefaultInterval
	Log      *slog.Logger
	Now      func() time.Time // nil => time.Now
}

// Service polls a Keyboard and publishes a frame (retained) whenever the
// number of held keys changes. It also answers state requests and caps lock
// commands.
type Service struct {
	kb       *Keyboard
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	frames uint32
}

func NewService(kb *Keyboard, cfg ServiceConfig) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{kb: kb, interval: cfg.Interval, log: cfg.Log, now: cfg.Now}
}

// Start runs the service loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	getSub := conn.Subscribe(TopicGet)
	defer conn.Unsubscribe(getSub)
	capsSub := conn.Subscribe(TopicCapsSet)
	defer conn.Unsubscribe(capsSub)

	s.publishStatus(conn)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("keyboard service stopping", "frames", s.frames)
			s.publish(conn, TopicStatus, types.KeyboardStatus{Link: types.LinkDown, Reader: s.kb.Reader(), TS: s.ts()})
			return
		case <-tick.C:
			s.Poll(conn)
		case msg := <-getSub.Channel():
			conn.Reply(msg, s.frame(), false)
		case msg := <-capsSub.Channel():
			on, ok := msg.Payload.(bool)
			if !ok {
				conn.Reply(msg, errcode.InvalidParams, false)
				continue
			}
			s.kb.SetCapsLocked(on)
			s.kb.UpdateKeysState()
			s.log.Debug("caps lock", "on", on)
			s.publish(conn, TopicState, s.frame())
			conn.Reply(msg, errcode.OK, false)
		}
	}
}

// Poll runs one cycle: refresh the key list and, when its size changed,
// decode and publish the frame. It reports whether a frame was published.
func (s *Service) Poll(conn *bus.Connection) bool {
	s.kb.Update()
	if !s.kb.IsChange() {
		return false
	}
	s.kb.UpdateKeysState()
	f := s.frame()
	s.frames++
	s.log.Log(context.Background(), kbdlog.LevelTrace, "frame",
		"keys", len(f.Keys), "word", string(f.State.Word), "mods", f.State.Modifiers)
	s.publish(conn, TopicState, f)
	return true
}

// frame snapshots the keyboard without sharing its buffers.
func (s *Service) frame() types.KeyboardFrame {
	return types.KeyboardFrame{
		Keys:  append([]types.Point(nil), s.kb.KeyList()...),
		State: s.kb.KeysState().Clone(),
		TS:    s.ts(),
	}
}

func (s *Service) publishStatus(conn *bus.Connection) {
	st := types.KeyboardStatus{Link: types.LinkUp, Reader: s.kb.Reader(), TS: s.ts()}
	if err := s.kb.Err(); err != nil {
		st.Link = types.LinkDegraded
		st.Error = string(errcode.Of(err))
		s.log.Warn("keyboard degraded", "reader", st.Reader, "err", err)
	} else {
		s.log.Info("keyboard up", "reader", st.Reader)
	}
	s.publish(conn, TopicStatus, st)
}

func (s *Service) publish(conn *bus.Connection, t bus.Topic, payload any) {
	conn.Publish(conn.NewMessage(t, payload, true))
}

func (s *Service) ts() int64 { return s.now().UnixMilli() }
