package main

import (
	"fmt"
	"log/slog"

	"kbdcore-go/bus"
	"kbdcore-go/services/hal/platform"
	"kbdcore-go/services/hal/platform/setups"
	"kbdcore-go/services/keyboard"
	"kbdcore-go/services/keyboard/keymap"
	"kbdcore-go/types"
)

// Step is the outcome of one scenario frame.
type Step struct {
	Held      []types.Point
	Published bool
	Frame     types.KeyboardFrame // last published frame
}

// Play boots an emulated board, replays sc frame by frame through the
// keyboard service and returns what each poll produced.
func Play(sc Scenario, board setups.Board, log *slog.Logger) ([]Step, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	host := platform.NewHost(board)
	kb := keyboard.New(keyboard.Config{Log: log})
	if err := kb.Begin(board.Setup.Reader, host.Resources()); err != nil {
		return nil, fmt.Errorf("board %s: %w", board.Setup.Board, err)
	}
	kb.SetCapsLocked(sc.Caps)

	b := bus.NewBus(4)
	conn := b.NewConnection("kbdsim")
	defer conn.Disconnect()
	states := conn.Subscribe(keyboard.TopicState)
	svc := keyboard.NewService(kb, keyboard.ServiceConfig{Log: log})

	var (
		steps []Step
		last  types.KeyboardFrame
	)
	for i, line := range sc.Frames {
		keys, err := ParseFrame(line, &keymap.Cardputer)
		if err != nil {
			return steps, fmt.Errorf("frame %d: %w", i, err)
		}
		host.Hold(keys)
		st := Step{Held: append([]types.Point(nil), host.Held()...)}
		if svc.Poll(conn) {
			last = (<-states.Channel()).Payload.(types.KeyboardFrame)
			st.Published = true
		}
		st.Frame = last
		steps = append(steps, st)
		log.Info("frame",
			"n", i,
			"input", line,
			"changed", st.Published,
			"word", string(last.State.Word),
			"hid", fmt.Sprintf("% x", last.State.HIDKeys),
			"mods", fmt.Sprintf("%08b", last.State.Modifiers),
		)
	}
	return steps, nil
}
