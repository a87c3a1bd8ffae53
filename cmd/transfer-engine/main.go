package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	transferengine "github.com/warsaw-transit-tools/transfer-engine"
	"github.com/warsaw-transit-tools/transfer-engine/config"
	"github.com/warsaw-transit-tools/transfer-engine/route"
)

func main() {
	// .env.local overrides .env for local development; the variables feed
	// the flag defaults below and the config env overrides.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yml (default: probe config.yml)")
	snapshotPath := flag.String("snapshot", os.Getenv("SNAPSHOT_PATH"), "path to a resolved route snapshot JSON (optional)")
	flag.Parse()

	transferengine.InitLogging()

	var err error
	if *configPath != "" {
		err = config.LoadAppConfig(*configPath)
	} else {
		err = config.LoadAppConfig()
	}
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var snapshot *route.Snapshot
	if *snapshotPath != "" {
		snapshot, err = route.LoadSnapshot(*snapshotPath)
		if err != nil {
			log.Fatalf("failed to load snapshot: %v", err)
		}
		log.Printf("loaded route template %q", snapshot.Template.ID)
	}

	svc := transferengine.NewService(config.Config, snapshot)
	svc.StartServer()
	transferengine.HandleGracefulShutdown()
}
