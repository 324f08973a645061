package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/camera_motion/internal/config"
	"github.com/relabs-tech/camera_motion/internal/orientation"
)

// RunOrientationProducer publishes mock orientation events to MQTT so the
// recorder can be exercised without a phone.
func RunOrientationProducer() error {
	log.Println("starting camera-motion orientation producer (mock)")

	cfg := config.Get()
	src := orientation.NewMockSource()

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	logEvery := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var lastLog time.Time

	for t := range ticker.C {
		ev, err := src.Next()
		if err != nil {
			log.Printf("error from mock orientation source: %v", err)
			continue
		}

		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("json marshal error (orientation): %v", err)
			continue
		}

		if token := client.Publish(cfg.TopicOrientation, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (orientation): %v", token.Error())
			continue
		}

		if t.Sub(lastLog) >= logEvery {
			a := orientation.FromEvent(ev)
			log.Printf("%s tick: alpha=%d beta=%d gamma=%d", t.Format(time.RFC3339), a.Alpha, a.Beta, a.Gamma)
			lastLog = t
		}
	}
	return nil
}
