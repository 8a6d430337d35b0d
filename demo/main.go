package main

import (
	"flag"
	"log"
	"time"

	"github.com/smelt2d/smelt"
)

func main() {
	configPath := flag.String("config", "assets/config.yaml", "path to the config file")
	materialsPath := flag.String("materials", "assets/materials_base.yaml", "path to the material pack")
	reactionsPath := flag.String("reactions", "assets/reactions_base.yaml", "path to the reaction pack")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := smelt.NewDefaultLogger("smelt", *debug)

	cfg, err := smelt.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	matDb := smelt.NewMaterialDb()
	if err := matDb.LoadFile(*materialsPath); err != nil {
		log.Fatal(err)
	}

	reactDb := smelt.NewReactionDb()
	if err := reactDb.LoadFile(matDb, *reactionsPath); err != nil {
		log.Fatal(err)
	}

	sim, err := smelt.NewSim(cfg, logger, matDb, reactDb)
	if err != nil {
		log.Fatal(err)
	}

	// From here on every log line carries the tick it was emitted on.
	logger.AttachTicks(sim.Shared().TickCount)

	go sim.Run()

	go func() {
		tracker := smelt.NewTpsTracker()
		for range time.Tick(2 * time.Second) {
			logger.Infof("tps: %.1f (tick %d)", tracker.Update(sim.Shared()), sim.Shared().TickCount())
		}
	}()

	observer, err := smelt.NewObserverServer(cfg, logger, sim.Shared())
	if err != nil {
		log.Fatal(err)
	}
	if err := observer.Serve(); err != nil {
		log.Fatal(err)
	}
}
