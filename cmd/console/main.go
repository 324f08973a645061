// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Mock console: records a short camera move from the mock orientation
// source and writes it next to the binary. Useful to check the output in
// the animation tool without a phone or a broker.
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/relabs-tech/camera_motion/internal/app"
	"github.com/relabs-tech/camera_motion/internal/capture"
	"github.com/relabs-tech/camera_motion/internal/trajectory"
	"github.com/relabs-tech/camera_motion/internal/vmdcsv"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "how long to record")
	outDir := flag.String("o", ".", "output directory")
	window := flag.Int("window", trajectory.DefaultWindow, "moving-average window in samples")
	flag.Parse()

	log.Println("starting camera-motion (mock console)")

	res, err := app.RunMockConsole(*duration, capture.Options{Window: *window})
	if errors.Is(err, vmdcsv.ErrEmptyInput) {
		log.Fatalf("no recorded data, try a longer -duration")
	}
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	path := filepath.Join(*outDir, vmdcsv.FileName)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("wrote %d frames to %s (session %s)", res.Frames, path, res.SessionID)
}
