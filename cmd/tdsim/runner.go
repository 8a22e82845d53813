package main

import (
	"log"
	"time"

	"github.com/decker502/towers/internal/autoplay"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/feed"
)

// runner owns the frame loop. Input from the terminal, the feed and the
// autoplayer is applied before each tick, in that order.
type runner struct {
	sim    *engine.Simulation
	player *autoplay.Player
	hub    *feed.Hub
	view   *terminalView
}

func (r *runner) run(maxFrames int, dtMs float64, realtime bool) {
	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(dtMs * float64(time.Millisecond)))
		defer ticker.Stop()
	}

	for frame := 0; frame < maxFrames; frame++ {
		if r.view != nil {
			intents, ok := r.view.Poll()
			if !ok {
				return
			}
			r.apply(intents)
		}
		if r.hub != nil {
			r.drainFeed()
		}
		if r.player != nil {
			r.apply(r.player.Plan(r.sim.Snapshot()))
		}

		events := r.sim.Tick(dtMs)
		snap := r.sim.Snapshot()
		if r.hub != nil {
			if err := r.hub.Publish(snap, events); err != nil {
				log.Printf("[tdsim] Publish failed: %v", err)
			}
		}
		if r.view != nil {
			r.view.Draw(snap, events)
		}
		// the terminal stays up on the result screen until the player quits
		if r.sim.Ended() && r.view == nil {
			return
		}
		if ticker != nil {
			<-ticker.C
		}
	}
}

func (r *runner) apply(intents []engine.Intent) {
	for _, in := range intents {
		r.sim.HandleIntent(in)
	}
}

func (r *runner) drainFeed() {
	for {
		select {
		case in := <-r.hub.Commands():
			r.sim.HandleIntent(in)
		default:
			return
		}
	}
}
