package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Siege-Swarm/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scenario := flag.String("scenario", "breach", "builtin scenario name or path to a .yaml file")
	seed := flag.Int64("seed", 0, "override the scenario seed (0 keeps it)")
	verbose := flag.Bool("verbose", false, "log every hit and move")
	flag.Parse()

	sc, err := game.LoadScenario(*scenario)
	if err != nil {
		log.Fatal(err)
	}
	opts := []game.SimOption{game.WithVerbose(*verbose)}
	if *seed != 0 {
		opts = append(opts, game.WithSeed(*seed))
	}
	g, err := game.New(sc, opts...)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Siege Swarm - " + sc.Name)
	ebiten.SetWindowSize(game.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
