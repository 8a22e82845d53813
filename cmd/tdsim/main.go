// Command tdsim runs a level headless, optionally with a terminal view and a
// websocket feed for remote viewers. Without -manual the built-in autoplayer
// makes every decision.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/decker502/towers"
	"github.com/decker502/towers/internal/autoplay"
	"github.com/decker502/towers/pkg/cloud"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/embedded"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/feed"
	"github.com/decker502/towers/pkg/game"
	"github.com/quasilyte/gdata/v2"
)

var (
	levelFlag      = flag.Int("level", 0, "Level index to play")
	difficultyFlag = flag.String("difficulty", game.DifficultyNormal, "Difficulty preset (easy, normal, hard, nightmare)")
	endlessFlag    = flag.Bool("endless", false, "Keep generating waves after the authored ones")
	seedFlag       = flag.Int64("seed", 1, "Random seed")
	dtFlag         = flag.Float64("dt", 50, "Frame delta in milliseconds")
	speedFlag      = flag.Int("speed", engine.MaxSpeed, "Game speed multiplier (1-3)")
	maxFramesFlag  = flag.Int("max-frames", 200000, "Stop after this many frames")
	manualFlag     = flag.Bool("manual", false, "Disable the autoplayer")
	tuiFlag        = flag.Bool("tui", false, "Show a terminal view (real time)")
	listenFlag     = flag.String("listen", "", "Serve the websocket snapshot feed on this address, e.g. :8080")
	storeFlag      = flag.String("store", "", "gdata app name for the profile and local saves (empty keeps them in memory)")
	cloudFlag      = flag.String("cloud", "", "Save service base URL")
	userFlag       = flag.String("user", "", "Save service username")
	passFlag       = flag.String("pass", "", "Save service password")
	jsonFlag       = flag.Bool("json", false, "Print the level result as JSON")
	verboseFlag    = flag.Bool("verbose", false, "Log every event")
)

func main() {
	flag.Parse()
	embedded.Init(towers.DataFS)

	catalog, err := config.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	var store *gdata.Manager
	if *storeFlag != "" {
		store = game.OpenStorage(*storeFlag)
	}
	profiles := game.NewProfileManager(store)

	sim, err := engine.NewSimulation(catalog, *levelFlag, engine.Options{
		Difficulty: *difficultyFlag,
		Endless:    *endlessFlag,
		Seed:       *seedFlag,
		Profiles:   profiles,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer sim.Close()
	if !sim.HandleIntent(engine.Intent{Kind: engine.IntentSetGameSpeed, Speed: *speedFlag}) {
		log.Fatalf("Invalid speed %d", *speedFlag)
	}
	if *verboseFlag {
		sim.Subscribe(event.ListenerFunc(func(e event.Event) {
			log.Printf("[Event] t=%.0f %s src=%d dst=%d amt=%.1f %s%s", e.TimeMs, e.Type, e.Source, e.Target, e.Amount, e.Kind, e.Reason)
		}))
	}

	level, _ := catalog.Level(*levelFlag)
	r := &runner{sim: sim}
	if !*manualFlag {
		r.player = autoplay.New(catalog, level, sim.Map())
	}
	if *listenFlag != "" {
		hub, err := feed.NewHub(sim.Map())
		if err != nil {
			log.Fatalf("Failed to start feed: %v", err)
		}
		defer hub.Close()
		r.hub = hub
		go serveFeed(*listenFlag, hub)
	}
	if *tuiFlag {
		// the terminal view owns the screen
		if f, err := os.Create("tdsim.log"); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
		view, err := newTerminalView(catalog.TowersFor(level), sim.Map())
		if err != nil {
			log.Fatalf("Failed to open terminal: %v", err)
		}
		defer view.Close()
		r.view = view
	}

	r.run(*maxFramesFlag, *dtFlag, r.view != nil || r.hub != nil)

	res, ok := sim.Result()
	if !ok {
		log.Printf("[tdsim] Stopped before the level ended")
	}
	report(res, ok)

	saves := cloud.NewSaveService(cloudClient(*cloudFlag), cloud.NewLocalSaveStore(store))
	if *userFlag != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cloud.DefaultTimeout)
		if err := saves.SignIn(ctx, *userFlag, *passFlag); err != nil {
			log.Printf("[tdsim] Sign in failed, saving locally: %v", err)
		}
		cancel()
	}
	state := cloud.StateFromSnapshot(sim.Snapshot(), profiles.Profile().LevelsUnlocked)
	save, err := saves.Create(context.Background(), "", state)
	if err != nil {
		log.Printf("[tdsim] Failed to save: %v", err)
		return
	}
	log.Printf("[tdsim] Saved %q (id=%s, local=%v)", save.Name, save.ID, save.Local)
}

func cloudClient(url string) *cloud.Client {
	if url == "" {
		return nil
	}
	return cloud.NewClient(url, nil)
}

func serveFeed(addr string, hub *feed.Hub) {
	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	log.Printf("[tdsim] Feed listening on %s/feed", addr)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("[tdsim] Feed stopped: %v", err)
	}
}

func report(res game.LevelResult, ended bool) {
	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Printf("[tdsim] Failed to encode result: %v", err)
		}
		return
	}
	if !ended {
		return
	}
	outcome := "lost"
	if res.Won {
		outcome = "won"
	}
	fmt.Printf("Level %d (%s): %s, %d stars, %d lives left\n", res.LevelIndex, res.Difficulty, outcome, res.Stars, res.LivesLeft)
	fmt.Printf("  kills %d (bosses %d), waves %d, gold earned %d, towers built %d, lost %d\n",
		res.Stats.Kills, res.Stats.BossKills, res.Stats.WavesCleared, res.Stats.GoldEarned, res.Stats.TowersBuilt, res.Stats.TowersLost)
	for _, m := range res.Missions {
		mark := " "
		if m.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %s (+%d gems)\n", mark, m.ID, m.RewardGems)
	}
}
