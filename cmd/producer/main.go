package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/camera_motion/internal/app"
	"github.com/relabs-tech/camera_motion/internal/config"
)

func main() {
	configPath := flag.String("config", "./motion_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting camera-motion producer (mock orientation → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunOrientationProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
