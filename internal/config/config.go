// Package config loads the node configuration from a YAML file,
// filling in defaults for everything the file leaves out. The defaults
// reproduce the node's original fixed constants, so a node with no
// config file behaves like the reference deployment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/schedule"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "-5h".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the full node configuration.
type Config struct {
	Time     TimeConfig     `yaml:"time"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Storage  StorageConfig  `yaml:"storage"`
	Radio    RadioConfig    `yaml:"radio"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Sample   SampleConfig   `yaml:"sample"`
	Control  ControlConfig  `yaml:"control"`
	Log      LogConfig      `yaml:"log"`
}

// TimeConfig selects the time server and the local-time conversion.
type TimeConfig struct {
	// Server is the NTP server queried once at boot.
	Server string `yaml:"server"`

	// UTCOffset and DSTOffset shift synchronized UTC into local
	// calendar time.
	UTCOffset Duration `yaml:"utc_offset"`
	DSTOffset Duration `yaml:"dst_offset"`

	// Retry is the pause between clock polls while waiting for the
	// first successful sync at boot.
	Retry Duration `yaml:"retry"`
}

// SensorConfig selects the accelerometer bus and measurement setup.
type SensorConfig struct {
	// Bus is the I2C bus name; empty selects the first available bus.
	Bus string `yaml:"bus"`

	// Address is the device I2C address.
	Address uint16 `yaml:"address"`

	// RangeG is the measurement span in g: 0.5, 1, 2 or 4.
	RangeG float64 `yaml:"range_g"`

	// BandwidthHz is the device bandwidth in Hz; the output data rate
	// is twice this value.
	BandwidthHz float64 `yaml:"bandwidth_hz"`

	FullResolution bool `yaml:"full_resolution"`

	// Int1Chip and Int1Line name the GPIO line wired to the sensor's
	// INT1 data-ready output. An empty chip means no line is wired and
	// readiness is polled over I2C.
	Int1Chip string `yaml:"int1_chip"`
	Int1Line int    `yaml:"int1_line"`
}

// StorageConfig selects where log files are written. Dir is normally a
// removable-card mount point.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// RadioConfig selects the telemetry link and its fixed destination.
type RadioConfig struct {
	// Driver is "mqtt", "ble" or "none".
	Driver string `yaml:"driver"`

	// MQTT driver settings.
	Broker   string `yaml:"broker"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`

	// BLE driver settings.
	Adapter   string `yaml:"adapter"`
	LocalName string `yaml:"local_name"`
	CompanyID uint16 `yaml:"company_id"`

	// TelemetryID is the fixed id carried by every packet.
	TelemetryID int32 `yaml:"telemetry_id"`

	// Interval is the broadcast period.
	Interval Duration `yaml:"interval"`
}

// ScheduleConfig holds the trigger times as "HH:MM:SS" strings.
type ScheduleConfig struct {
	Suspend string   `yaml:"suspend"`
	Resume  string   `yaml:"resume"`
	Restart []string `yaml:"restart"`
}

// Triggers parses the configured times into a schedule. Empty suspend
// or resume strings disable that trigger.
func (s ScheduleConfig) Triggers() (schedule.Schedule, error) {
	var sched schedule.Schedule
	if s.Suspend != "" {
		td, err := schedule.ParseTimeOfDay(s.Suspend)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("suspend: %w", err)
		}
		sched.SuspendAt = &td
	}
	if s.Resume != "" {
		td, err := schedule.ParseTimeOfDay(s.Resume)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("resume: %w", err)
		}
		sched.ResumeAt = &td
	}
	for _, r := range s.Restart {
		td, err := schedule.ParseTimeOfDay(r)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("restart: %w", err)
		}
		sched.RestartAt = append(sched.RestartAt, td)
	}
	return sched, nil
}

// SampleConfig paces the sampler loop.
type SampleConfig struct {
	Interval Duration `yaml:"interval"`
}

// ControlConfig paces the lifecycle controller loop.
type ControlConfig struct {
	Interval Duration `yaml:"interval"`
}

// LogConfig selects the console log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Time: TimeConfig{
			Server:    "pool.ntp.org",
			UTCOffset: Duration(-5 * time.Hour),
			DSTOffset: Duration(time.Hour),
			Retry:     Duration(500 * time.Millisecond),
		},
		Sensor: SensorConfig{
			Address:        0x1D,
			RangeG:         2,
			BandwidthHz:    50,
			FullResolution: true,
		},
		Storage: StorageConfig{Dir: "/var/lib/accel-node"},
		Radio: RadioConfig{
			Driver:      "mqtt",
			Broker:      "tcp://192.168.1.200:1883",
			Topic:       "accel-node/telemetry",
			LocalName:   "accel-node",
			CompanyID:   0xFFFF,
			TelemetryID: 11,
			Interval:    Duration(2 * time.Second),
		},
		Schedule: ScheduleConfig{
			Suspend: "21:12:10",
			Resume:  "06:12:10",
			Restart: []string{"06:16:10", "06:18:10"},
		},
		Sample:  SampleConfig{Interval: Duration(time.Millisecond)},
		Control: ControlConfig{Interval: Duration(time.Millisecond)},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path on top of the defaults and validates
// the result. An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the node cannot run
// with.
func (c Config) Validate() error {
	if c.Time.Server == "" {
		return errors.New("time.server must be set")
	}
	if c.Time.Retry <= 0 {
		return errors.New("time.retry must be positive")
	}
	switch c.Sensor.RangeG {
	case 0.5, 1, 2, 4:
	default:
		return fmt.Errorf("sensor.range_g %v: want 0.5, 1, 2 or 4", c.Sensor.RangeG)
	}
	switch c.Sensor.BandwidthHz {
	case 3.125, 6.25, 12.5, 25, 50, 100, 200, 400, 800, 1600:
	default:
		return fmt.Errorf("sensor.bandwidth_hz %v: unsupported bandwidth", c.Sensor.BandwidthHz)
	}
	if c.Storage.Dir == "" {
		return errors.New("storage.dir must be set")
	}
	switch c.Radio.Driver {
	case "mqtt":
		if c.Radio.Broker == "" {
			return errors.New("radio.broker must be set for the mqtt driver")
		}
		if c.Radio.Topic == "" {
			return errors.New("radio.topic must be set for the mqtt driver")
		}
	case "ble", "none":
	default:
		return fmt.Errorf("radio.driver %q: want mqtt, ble or none", c.Radio.Driver)
	}
	if c.Radio.Interval <= 0 {
		return errors.New("radio.interval must be positive")
	}
	if _, err := c.Schedule.Triggers(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if c.Sample.Interval <= 0 {
		return errors.New("sample.interval must be positive")
	}
	if c.Control.Interval <= 0 {
		return errors.New("control.interval must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	return nil
}
