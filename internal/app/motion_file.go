// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relabs-tech/camera_motion/internal/vmdcsv"
)

// writeMotionFile stores data as dir/CameraMotionData.csv, replacing any
// earlier recording. The file is renamed into place so readers never see
// a partial write.
func writeMotionFile(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".motion-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp motion file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("chmod motion file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write motion file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close motion file: %w", err)
	}

	path := filepath.Join(dir, vmdcsv.FileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename motion file: %w", err)
	}
	return path, nil
}
