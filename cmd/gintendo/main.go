// Command gintendo runs the NES core against a ROM file, presenting it
// in an ebiten window unless run with -headless.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hollowtrace/gintendo/console"
	"github.com/hollowtrace/gintendo/input"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile  = flag.String("nes_rom", "", "Path to NES ROM to run.")
	scale    = flag.Int("scale", 2, "Integer window scale factor.")
	headless = flag.Bool("headless", false, "Run the core without opening a window (for scripted/automated runs).")
)

// keymap mirrors the teacher's own ebiten key bindings, generalized to
// drive input.Controller.SetButton from the host rather than polling
// from inside the core.
var keymap = map[ebiten.Key]input.Button{
	ebiten.KeyA:     input.ButtonA,
	ebiten.KeyB:     input.ButtonB,
	ebiten.KeySpace: input.ButtonSelect,
	ebiten.KeyEnter: input.ButtonStart,
	ebiten.KeyUp:    input.ButtonUp,
	ebiten.KeyDown:  input.ButtonDown,
	ebiten.KeyLeft:  input.ButtonLeft,
	ebiten.KeyRight: input.ButtonRight,
}

// inputGame wraps a *console.Bus to poll ebiten keys into SetButton
// calls once per ebiten Update tick, in addition to the Bus's own
// Game interface methods (Draw/Layout).
type inputGame struct {
	*console.Bus
}

func (g *inputGame) Update() error {
	for key, btn := range keymap {
		g.SetButton(btn, ebiten.IsKeyPressed(key))
	}
	return g.Bus.Update()
}

func main() {
	flag.Parse()

	data, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("Couldn't read ROM: %v", err)
	}

	bus, err := console.New(data)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *headless {
		runHeadless(ctx, bus)
		return
	}

	go bus.Run(ctx)

	ebiten.SetWindowSize(256**scale, 240**scale)
	if err := ebiten.RunGame(&inputGame{bus}); err != nil {
		log.Fatal(err)
	}
}

// runHeadless drives the core without any presentation layer, for
// scripted or automated runs (CI smoke tests, trace comparisons). It
// simply produces and discards frames until ctx is cancelled.
func runHeadless(ctx context.Context, bus *console.Bus) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			bus.Tick()
		}
	}
}
