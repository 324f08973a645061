// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package vmdcsv writes camera trajectories in the CSV rendition of the
// Vocaloid Motion Data (VMD) format, as read by MikuMikuDance converters.
//
// Only the camera section is populated. Every row carries a fixed camera
// distance, view angle and position, the three rotation values of one
// trajectory point, and a constant linear interpolation block.
package vmdcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/relabs-tech/camera_motion/internal/trajectory"
)

// FileName is the name the animation tool expects for camera data.
const FileName = "CameraMotionData.csv"

// ErrEmptyInput is returned when there is nothing to encode.
var ErrEmptyInput = errors.New("vmdcsv: no recorded data")

// BOM is written before the CSV text so the reader detects UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	formatLabel  = "Vocaloid Motion Data 0002"
	sectionLabel = "カメラ・照明"
)

// Camera defaults shared by all rows.
const (
	cameraDistance = "0"
	cameraAngle    = "30" // view angle, degrees
	cameraX        = "0"
	cameraY        = "10"
	cameraZ        = "0"
)

// Interpolation control points (p1x, p1y, p2x, p2y) of a straight curve.
var linearCurve = []string{"20", "20", "107", "107"}

var (
	boneChannels   = []string{"x", "y", "z", "r"}
	cameraChannels = []string{"x", "y", "z", "r", "d", "a"}
)

// HeaderRows returns the five fixed rows that precede the frame data.
func HeaderRows() [][]string {
	motion := append([]string{"Motion", "bone", "x", "y", "z", "rx", "ry", "rz"},
		curveColumns(boneChannels)...)
	camera := append([]string{"Camera", "d", "a", "x", "y", "z", "rx", "ry", "rz"},
		curveColumns(cameraChannels)...)

	return [][]string{
		{formatLabel},
		{sectionLabel},
		motion,
		{"Expression", "name", "fact"},
		camera,
	}
}

func curveColumns(channels []string) []string {
	cols := make([]string, 0, len(channels)*4)
	for _, ch := range channels {
		cols = append(cols, ch+"_p1x", ch+"_p1y", ch+"_p2x", ch+"_p2y")
	}
	return cols
}

// Record maps one trajectory point to a camera row. Beta, alpha and gamma
// land in the rx, ry and rz columns; everything else is constant.
func Record(frame int, p trajectory.Point) []string {
	row := make([]string, 0, 9+len(cameraChannels)*len(linearCurve))
	row = append(row,
		strconv.Itoa(frame),
		cameraDistance,
		cameraAngle,
		cameraX,
		cameraY,
		cameraZ,
		FormatNumber(p.Beta),
		FormatNumber(p.Alpha),
		FormatNumber(p.Gamma),
	)
	for range cameraChannels {
		row = append(row, linearCurve...)
	}
	return row
}

// Encode writes the BOM, the header rows and one row per point to w.
// It returns ErrEmptyInput without writing anything if points is empty.
func Encode(w io.Writer, points []trajectory.Point) error {
	if len(points) == 0 {
		return ErrEmptyInput
	}

	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("vmdcsv: write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(HeaderRows()); err != nil {
		return fmt.Errorf("vmdcsv: write header: %w", err)
	}
	for i, p := range points {
		if err := cw.Write(Record(i, p)); err != nil {
			return fmt.Errorf("vmdcsv: write frame %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("vmdcsv: flush: %w", err)
	}
	return nil
}

// Marshal returns the encoded file contents.
func Marshal(points []trajectory.Point) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, points); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatNumber prints v the way the animation tool's CSV importers expect:
// integers without a fraction, other values with the shortest decimal that
// round-trips, and exponent notation only below 1e-6 or from 1e21 up.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0" // also covers -0
	}

	av := math.Abs(v)
	if av >= 1e-6 && av < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// Go prints "1e-07"; the importers want "1e-7".
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
