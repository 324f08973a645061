package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
# broker
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_RECORDER = motion-recorder

TOPIC_ORIENTATION=phone/orientation
RECORD_RATE_HZ=60
SMOOTHING_WINDOW=9
HEADING_WRAP_THRESHOLD=120
OUTPUT_DIR=/tmp/motion
WEB_SERVER_PORT=9090
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "motion-recorder", cfg.MQTTClientIDRecorder)
	assert.Equal(t, "phone/orientation", cfg.TopicOrientation)
	assert.Equal(t, 60, cfg.RecordRateHz)
	assert.Equal(t, 9, cfg.SmoothingWindow)
	assert.Equal(t, 120, cfg.HeadingWrapThreshold)
	assert.Equal(t, "/tmp/motion", cfg.OutputDir)
	assert.Equal(t, 9090, cfg.WebServerPort)

	// untouched keys keep their defaults
	assert.Equal(t, "motion/control", cfg.TopicControl)
	assert.Equal(t, "web", cfg.WebStaticDir)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("MQTT_BROKER=tcp://broker:1883\n"))
	require.NoError(t, err)

	assert.Equal(t, 31, cfg.RecordRateHz)
	assert.Equal(t, 5, cfg.SmoothingWindow)
	assert.Equal(t, 150, cfg.HeadingWrapThreshold)
	assert.Equal(t, 8080, cfg.WebServerPort)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing broker", "SMOOTHING_WINDOW=5\n", "MQTT_BROKER is required"},
		{"no equals", "MQTT_BROKER\n", "invalid config line 1"},
		{"unknown key", "MQTT_BROKER=x\nFOO=bar\n", `unknown config key: "FOO"`},
		{"bad int", "MQTT_BROKER=x\nRECORD_RATE_HZ=fast\n", "invalid RECORD_RATE_HZ"},
		{"zero window", "MQTT_BROKER=x\nSMOOTHING_WINDOW=0\n", "SMOOTHING_WINDOW must be positive"},
		{"threshold range", "MQTT_BROKER=x\nHEADING_WRAP_THRESHOLD=400\n", "HEADING_WRAP_THRESHOLD must be 1-360"},
		{"port range", "MQTT_BROKER=x\nWEB_SERVER_PORT=70000\n", "WEB_SERVER_PORT must be 1-65535"},
		{"empty output dir", "MQTT_BROKER=x\nOUTPUT_DIR=\n", "OUTPUT_DIR is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileAndGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RecordRateHz)

	require.NoError(t, InitGlobal(path))
	require.NotNil(t, Get())
	assert.Equal(t, "phone/orientation", Get().TopicOrientation)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}
