package main

import (
	"context"
	"time"

	"kbdcore-go/bus"
	kbdlog "kbdcore-go/internal/log"
	"kbdcore-go/services/hal/platform"
	"kbdcore-go/services/keyboard"
	"kbdcore-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	board := platform.Selected()
	log := kbdlog.New("info", platform.Console(board.Plan.Console))
	log.Info("boot", "board", board.Setup.Board, "reader", board.Setup.Reader.Type)

	kb := keyboard.New(keyboard.Config{Log: log})
	// A failed Begin leaves the keyboard reporting no keys; the service
	// publishes the degraded status.
	_ = kb.Begin(board.Setup.Reader, platform.Resources(board))

	ctx := context.Background()
	b := bus.NewBus(4)
	kbConn := b.NewConnection("keyboard")
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(bus.T("hal", "keyboard", "#"))

	svc := keyboard.NewService(kb, keyboard.ServiceConfig{Log: log})
	if err := svc.Start(ctx, kbConn); err != nil {
		log.Error("keyboard service", "err", err)
		return
	}

	for m := range mon.Channel() {
		switch p := m.Payload.(type) {
		case types.KeyboardFrame:
			log.Info("keys",
				"n", len(p.Keys),
				"word", string(p.State.Word),
				"mods", p.State.Modifiers,
				"fn", p.State.Fn,
				"enter", p.State.Enter,
				"del", p.State.Del,
			)
		case types.KeyboardStatus:
			log.Info("keyboard", "link", p.Link, "reader", p.Reader, "err", p.Error)
		}
	}
}
