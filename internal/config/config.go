package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
)

// Config holds all application configuration values. It is loaded once
// at startup and immutable for the process lifetime.
type Config struct {
	// I2C
	I2CBus     int    // bus number N, device file /dev/i2c-N
	I2CAddress uint16 // 7-bit address, 0x68 or 0x69 (AD0 pin high)

	// Sensor full-scale ranges
	GyroRange  imu.GyroRange  // °/s: 250, 500, 1000, 2000
	AccelRange imu.AccelRange // g: 2, 4, 8, 16

	// Polling
	PollPeriodMS int

	// rosbridge
	BridgeURL  string // e.g. ws://192.168.1.10:9090
	TopicAccel string
	TopicGyro  string
	TopicTemp  string

	// Optional MQTT mirror. Disabled when MQTT_BROKER is empty.
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	TopicIMUMirror       string
	TopicPoseMirror      string
}

// Package-level singleton, mirroring the usual producer setup: main
// calls InitGlobal once, everything else reads through Get. The mutex
// allows Get from any goroutine; globalConfig is never written again
// after InitGlobal.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config prefilled with the values the original
// deployment used, so a minimal config file only needs BRIDGE_URL.
func defaults() *Config {
	return &Config{
		I2CBus:               1,
		I2CAddress:           0x68,
		GyroRange:            250,
		AccelRange:           16,
		PollPeriodMS:         100,
		TopicAccel:           "/MPU6050/Accel",
		TopicGyro:            "/MPU6050/Gyro",
		TopicTemp:            "/MPU6050/Temp",
		MQTTClientIDProducer: "mpu6050-producer",
		MQTTClientIDConsole:  "mpu6050-console",
		TopicIMUMirror:       "mpu6050/imu",
		TopicPoseMirror:      "mpu6050/pose",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
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
	// I2C
	case "I2C_BUS":
		bus, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid I2C_BUS %q: %w", value, err)
		}
		if bus < 0 {
			return fmt.Errorf("I2C_BUS must be >= 0, got %d", bus)
		}
		c.I2CBus = bus
	case "I2C_ADDRESS":
		addr, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid I2C_ADDRESS %q: %w", value, err)
		}
		if addr != 0x68 && addr != 0x69 {
			return fmt.Errorf("I2C_ADDRESS must be 0x68 or 0x69 (AD0 pin), got 0x%02X", addr)
		}
		c.I2CAddress = uint16(addr)

	// Sensor full-scale ranges
	case "GYRO_RANGE":
		deg, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_RANGE %q: %w", value, err)
		}
		if _, err := imu.GyroRange(deg).Code(); err != nil {
			return fmt.Errorf("GYRO_RANGE: %w", err)
		}
		c.GyroRange = imu.GyroRange(deg)
	case "ACCEL_RANGE":
		g, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_RANGE %q: %w", value, err)
		}
		if _, err := imu.AccelRange(g).Code(); err != nil {
			return fmt.Errorf("ACCEL_RANGE: %w", err)
		}
		c.AccelRange = imu.AccelRange(g)

	// Polling
	case "POLL_PERIOD_MS":
		period, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POLL_PERIOD_MS %q: %w", value, err)
		}
		if period <= 0 {
			return fmt.Errorf("POLL_PERIOD_MS must be > 0, got %d", period)
		}
		c.PollPeriodMS = period

	// rosbridge
	case "BRIDGE_URL":
		c.BridgeURL = value
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_GYRO":
		c.TopicGyro = value
	case "TOPIC_TEMP":
		c.TopicTemp = value

	// MQTT mirror
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "TOPIC_IMU_MIRROR":
		c.TopicIMUMirror = value
	case "TOPIC_POSE_MIRROR":
		c.TopicPoseMirror = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set and the range
// enumerations are coherent. Failing here aborts startup; a bad range
// must never reach the converter.
func (c *Config) validate() error {
	if c.BridgeURL == "" {
		return fmt.Errorf("BRIDGE_URL is required")
	}
	if !strings.HasPrefix(c.BridgeURL, "ws://") && !strings.HasPrefix(c.BridgeURL, "wss://") {
		return fmt.Errorf("BRIDGE_URL must be a ws:// or wss:// URL, got %q", c.BridgeURL)
	}
	if c.PollPeriodMS <= 0 {
		return fmt.Errorf("POLL_PERIOD_MS must be > 0")
	}
	if _, err := c.GyroRange.Sensitivity(); err != nil {
		return fmt.Errorf("GYRO_RANGE: %w", err)
	}
	if _, err := c.AccelRange.Sensitivity(); err != nil {
		return fmt.Errorf("ACCEL_RANGE: %w", err)
	}
	if c.TopicAccel == "" || c.TopicGyro == "" || c.TopicTemp == "" {
		return fmt.Errorf("TOPIC_ACCEL, TOPIC_GYRO and TOPIC_TEMP must not be empty")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Safe to
// call more than once; only the first call loads.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must have
// been called first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
