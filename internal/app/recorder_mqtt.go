// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/camera_motion/internal/capture"
	"github.com/relabs-tech/camera_motion/internal/config"
	"github.com/relabs-tech/camera_motion/internal/orientation"
	"github.com/relabs-tech/camera_motion/internal/vmdcsv"
)

// Control commands accepted on the control topic.
const (
	CommandStart = "start"
	CommandStop  = "stop"
	CommandReset = "reset"
)

var ErrUnknownCommand = errors.New("recorder: unknown command")

// RecorderStatus is published on the status topic after every command.
type RecorderStatus struct {
	capture.Status
	Command string `json:"command,omitempty"`
	Frames  int    `json:"frames,omitempty"`
	File    string `json:"file,omitempty"`
	Message string `json:"message,omitempty"`
}

type publishFunc func(topic string, retained bool, payload []byte) error

// Recorder drives a capture session from MQTT messages.
type Recorder struct {
	session *capture.Session
	cfg     *config.Config
	publish publishFunc
}

// NewRecorder returns a Recorder publishing through publish.
func NewRecorder(session *capture.Session, cfg *config.Config, publish publishFunc) *Recorder {
	return &Recorder{session: session, cfg: cfg, publish: publish}
}

// HandleOrientation ingests one JSON orientation event.
func (r *Recorder) HandleOrientation(payload []byte) error {
	var ev orientation.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("recorder: orientation unmarshal: %w", err)
	}
	r.session.Observe(ev)
	return nil
}

// HandleControl executes a start/stop/reset command and publishes the
// resulting status. A stop with data also writes and publishes the file.
func (r *Recorder) HandleControl(payload []byte) error {
	cmd := strings.ToLower(strings.TrimSpace(string(payload)))
	status := RecorderStatus{Command: cmd}

	var cmdErr error
	switch cmd {
	case CommandStart:
		cmdErr = r.session.Start()
	case CommandReset:
		r.session.Reset()
	case CommandStop:
		res, err := r.session.Stop()
		if err != nil {
			cmdErr = err
			break
		}
		path, err := writeMotionFile(r.cfg.OutputDir, res.Data)
		if err != nil {
			cmdErr = err
			break
		}
		status.Frames = res.Frames
		status.File = path
		if err := r.publish(r.cfg.TopicMotion, false, res.Data); err != nil {
			log.Printf("recorder: MQTT publish error (motion): %v", err)
		}
	default:
		cmdErr = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	status.Status = r.session.Snapshot()
	if cmdErr != nil {
		status.Message = userMessage(cmdErr)
	}
	r.publishStatus(status)
	return cmdErr
}

func (r *Recorder) publishStatus(status RecorderStatus) {
	payload, err := json.Marshal(status)
	if err != nil {
		log.Printf("recorder: status marshal error: %v", err)
		return
	}
	if err := r.publish(r.cfg.TopicStatus, true, payload); err != nil {
		log.Printf("recorder: MQTT publish error (status): %v", err)
	}
}

// RunRecorderMQTT records orientation events arriving over MQTT and writes
// CameraMotionData.csv whenever a stop command is received.
func RunRecorderMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDRecorder)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("recorder: connected to MQTT broker at %s", cfg.MQTTBroker)

	session := capture.NewSession(sessionOptions(cfg))
	rec := NewRecorder(session, cfg, func(topic string, retained bool, payload []byte) error {
		token := client.Publish(topic, 0, retained, payload)
		token.Wait()
		return token.Error()
	})

	// MQTT needs no permission prompt; the sensor is usable as soon as we subscribe.
	session.Authorize()

	orientationToken := client.Subscribe(cfg.TopicOrientation, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := rec.HandleOrientation(msg.Payload()); err != nil {
			log.Printf("%v", err)
		}
	})
	orientationToken.Wait()
	if orientationToken.Error() != nil {
		return orientationToken.Error()
	}
	log.Printf("recorder: subscribed to %s", cfg.TopicOrientation)

	controlToken := client.Subscribe(cfg.TopicControl, 1, func(_ mqtt.Client, msg mqtt.Message) {
		if err := rec.HandleControl(msg.Payload()); err != nil {
			log.Printf("recorder: %s: %v", string(msg.Payload()), err)
		}
	})
	controlToken.Wait()
	if controlToken.Error() != nil {
		return controlToken.Error()
	}
	log.Printf("recorder: subscribed to %s", cfg.TopicControl)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("recorder: shutting down")
	if session.State() == capture.Recording {
		if err := rec.HandleControl([]byte(CommandStop)); err != nil && !errors.Is(err, vmdcsv.ErrEmptyInput) {
			log.Printf("recorder: final stop: %v", err)
		}
	}
	return nil
}
