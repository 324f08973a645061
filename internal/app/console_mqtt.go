package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/camera_motion/internal/config"
	"github.com/relabs-tech/camera_motion/internal/orientation"
)

// RunConsoleMQTT prints orientation events and recorder status as they
// arrive on the broker.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to orientation
	orientationToken := client.Subscribe(cfg.TopicOrientation, 0, func(_ mqtt.Client, msg mqtt.Message) {
		line, err := formatOrientation(msg.Payload())
		if err != nil {
			log.Printf("console: orientation unmarshal error: %v", err)
			return
		}
		fmt.Println(line)
	})
	orientationToken.Wait()
	if orientationToken.Error() != nil {
		return orientationToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicOrientation)

	// Subscribe to recorder status
	statusToken := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		line, err := formatStatus(msg.Payload())
		if err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}
		fmt.Println(line)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicStatus)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatOrientation(payload []byte) (string, error) {
	var ev orientation.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return "", err
	}
	a := orientation.FromEvent(ev)
	return fmt.Sprintf("[ORIENT] ALPHA=%4d  BETA=%4d  GAMMA=%4d", a.Alpha, a.Beta, a.Gamma), nil
}

func formatStatus(payload []byte) (string, error) {
	var s RecorderStatus
	if err := json.Unmarshal(payload, &s); err != nil {
		return "", err
	}
	line := fmt.Sprintf("[REC]    state=%s samples=%d cmd=%s", s.State, s.Samples, s.Command)
	if s.File != "" {
		line += fmt.Sprintf(" frames=%d file=%s", s.Frames, s.File)
	}
	if s.Message != "" {
		line += " msg=" + s.Message
	}
	return line, nil
}
