// Command accel-node runs an autonomous accelerometer logger node: it
// samples a three-axis ADXL313 continuously, appends every sample to a
// CSV log on removable storage, broadcasts the newest sample over a
// short-range wireless link, and suspends, resumes and restarts itself
// on a fixed time-of-day schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/drivers/adxl313"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/accel"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/config"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/logging"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/node"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/radio"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (empty for defaults)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	storageDir := flag.String("storage-dir", "", "log storage directory (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(&cfg, *broker, *storageDir, *logLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("node failed", "error", err)
		os.Exit(1)
	}
	slog.Info("shut down")
}

func run(ctx context.Context, cfg config.Config) error {
	sched, err := cfg.Schedule.Triggers()
	if err != nil {
		return err
	}

	clock := wallclock.NewNTPSource(
		cfg.Time.Server,
		cfg.Time.UTCOffset.Std(),
		cfg.Time.DSTOffset.Std(),
		slog.Default(),
	)

	sensorCfg, err := sensorConfig(cfg.Sensor)
	if err != nil {
		return err
	}
	sensor, err := accel.NewRealSensor(sensorCfg)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer sensor.Close()

	rad, err := newRadio(cfg.Radio)
	if err != nil {
		return fmt.Errorf("init radio: %w", err)
	}
	defer rad.Close()

	n, err := node.Boot(ctx, node.Hardware{
		Clock:     clock,
		Sensor:    sensor,
		Radio:     rad,
		Restarter: node.ExecRestarter{},
	}, node.Options{
		StorageDir:        cfg.Storage.Dir,
		Schedule:          sched,
		TelemetryID:       cfg.Radio.TelemetryID,
		SampleInterval:    cfg.Sample.Interval.Std(),
		ControlInterval:   cfg.Control.Interval.Std(),
		BroadcastInterval: cfg.Radio.Interval.Std(),
		ClockRetry:        cfg.Time.Retry.Std(),
		Logger:            slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}
	return n.Run(ctx)
}

// applyOverrides layers the non-empty flag values over the file config.
func applyOverrides(cfg *config.Config, broker, storageDir, logLevel string) {
	if broker != "" {
		cfg.Radio.Broker = broker
	}
	if storageDir != "" {
		cfg.Storage.Dir = storageDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

// sensorConfig maps the configured numbers onto the driver codes.
func sensorConfig(sc config.SensorConfig) (accel.RealConfig, error) {
	rng, err := adxl313.RangeForG(sc.RangeG)
	if err != nil {
		return accel.RealConfig{}, err
	}
	rate, err := adxl313.RateForBandwidth(sc.BandwidthHz)
	if err != nil {
		return accel.RealConfig{}, err
	}
	int1 := -1
	if sc.Int1Chip != "" {
		int1 = sc.Int1Line
	}
	return accel.RealConfig{
		Bus:            sc.Bus,
		Addr:           sc.Address,
		Range:          rng,
		Rate:           rate,
		FullResolution: sc.FullResolution,
		Int1Pin:        int1,
		Int1Chip:       sc.Int1Chip,
	}, nil
}

func newRadio(rc config.RadioConfig) (radio.Radio, error) {
	switch rc.Driver {
	case "mqtt":
		return radio.NewMQTTRadio(radio.MQTTConfig{
			Broker:   rc.Broker,
			Username: rc.Username,
			Password: rc.Password,
			Topic:    rc.Topic,
		})
	case "ble":
		return radio.NewBLEBeacon(radio.BLEConfig{
			Adapter:   rc.Adapter,
			LocalName: rc.LocalName,
			CompanyID: rc.CompanyID,
		})
	case "none":
		return radio.Noop{}, nil
	default:
		return nil, fmt.Errorf("radio driver %q: want mqtt, ble or none", rc.Driver)
	}
}
