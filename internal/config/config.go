package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDRecorder string
	MQTTClientIDConsole  string

	// Topics
	TopicOrientation string // raw orientation events (JSON)
	TopicControl     string // "start", "stop", "reset"
	TopicStatus      string // recorder status (JSON)
	TopicMotion      string // finished CameraMotionData.csv

	// Timing
	SampleInterval     int // milliseconds between mock producer events
	ConsoleLogInterval int // milliseconds

	// Recording
	RecordRateHz         int // snapshots per second while recording
	SmoothingWindow      int // moving-average window in samples
	HeadingWrapThreshold int // degrees; larger heading steps are dropped
	OutputDir            string

	// Web Server
	WebServerPort int
	WebStaticDir  string
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal() and Get().
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		TopicOrientation:     "motion/orientation",
		TopicControl:         "motion/control",
		TopicStatus:          "motion/status",
		TopicMotion:          "motion/camera_csv",
		SampleInterval:       32,
		ConsoleLogInterval:   1000,
		RecordRateHz:         31,
		SmoothingWindow:      5,
		HeadingWrapThreshold: 150,
		OutputDir:            ".",
		WebServerPort:        8080,
		WebStaticDir:         "web",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of Default().
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_RECORDER":
		c.MQTTClientIDRecorder = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_ORIENTATION":
		c.TopicOrientation = value
	case "TOPIC_CONTROL":
		c.TopicControl = value
	case "TOPIC_STATUS":
		c.TopicStatus = value
	case "TOPIC_MOTION":
		c.TopicMotion = value

	// Timing
	case "SAMPLE_INTERVAL":
		return setPositiveInt(&c.SampleInterval, key, value)
	case "CONSOLE_LOG_INTERVAL":
		return setPositiveInt(&c.ConsoleLogInterval, key, value)

	// Recording
	case "RECORD_RATE_HZ":
		return setPositiveInt(&c.RecordRateHz, key, value)
	case "SMOOTHING_WINDOW":
		return setPositiveInt(&c.SmoothingWindow, key, value)
	case "HEADING_WRAP_THRESHOLD":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HEADING_WRAP_THRESHOLD %q: %w", value, err)
		}
		if val <= 0 || val > 360 {
			return fmt.Errorf("HEADING_WRAP_THRESHOLD must be 1-360, got %d", val)
		}
		c.HeadingWrapThreshold = val
	case "OUTPUT_DIR":
		c.OutputDir = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func setPositiveInt(dst *int, key, value string) error {
	val, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %d", key, val)
	}
	*dst = val
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicOrientation == "" {
		return fmt.Errorf("TOPIC_ORIENTATION is required")
	}
	if c.TopicControl == "" {
		return fmt.Errorf("TOPIC_CONTROL is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
