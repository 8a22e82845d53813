// Command viewer is the graphical front end. It runs a level in process or,
// with -connect, follows a feed served by tdsim -listen.
package main

import (
	"flag"
	"log"

	"github.com/decker502/towers"
	"github.com/decker502/towers/internal/autoplay"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/embedded"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

var (
	levelFlag      = flag.Int("level", 0, "Level index to play")
	difficultyFlag = flag.String("difficulty", game.DifficultyNormal, "Difficulty preset")
	endlessFlag    = flag.Bool("endless", false, "Keep generating waves after the authored ones")
	seedFlag       = flag.Int64("seed", 1, "Random seed")
	demoFlag       = flag.Bool("demo", false, "Let the autoplayer play")
	connectFlag    = flag.String("connect", "", "Follow a remote feed, e.g. ws://localhost:8080/feed")
	storeFlag      = flag.String("store", "towers", "gdata app name for the profile (empty keeps it in memory)")
	scaleFlag      = flag.Float64("scale", 1, "Window scale")
)

func main() {
	flag.Parse()
	embedded.Init(towers.DataFS)

	catalog, err := config.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}
	level, ok := catalog.Level(*levelFlag)
	if !ok {
		log.Fatalf("Unknown level %d", *levelFlag)
	}

	var store *gdata.Manager
	if *storeFlag != "" {
		store = game.OpenStorage(*storeFlag)
	}
	profiles := game.NewProfileManager(store)

	var src source
	if *connectFlag != "" {
		remote, err := dialRemote(*connectFlag)
		if err != nil {
			log.Fatalf("%v", err)
		}
		src = remote
	} else {
		sim, err := engine.NewSimulation(catalog, *levelFlag, engine.Options{
			Difficulty: *difficultyFlag,
			Endless:    *endlessFlag,
			Seed:       *seedFlag,
			Profiles:   profiles,
		})
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		local := &localSource{sim: sim}
		if *demoFlag {
			local.player = autoplay.New(catalog, level, sim.Map())
		}
		src = local
	}
	defer src.Close()

	g := newGame(src, catalog.TowersFor(level), profiles.Profile().Settings.ShowDamageNumbers)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(int(float64(w)**scaleFlag), int(float64(h)**scaleFlag))
	ebiten.SetWindowTitle("Towers - " + level.Name)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

