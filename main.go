package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/XANi/gaia2mqtt/config"
	"github.com/XANi/gaia2mqtt/coordinator"
	"github.com/XANi/gaia2mqtt/gaia"
	"github.com/XANi/gaia2mqtt/hass"
	"github.com/XANi/gaia2mqtt/history"
	"github.com/XANi/gaia2mqtt/sensor"
	"github.com/XANi/gaia2mqtt/web"
	"github.com/XANi/go-yamlcfg"
	"github.com/efigence/go-mon"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version string
var log *zap.SugaredLogger
var debug = true
var exit = make(chan error, 1)

func init() {
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	// naive systemd detection. Drop timestamp if running under it
	if os.Getenv("JOURNAL_STREAM") != "" {
		consoleEncoderConfig.TimeKey = ""
	}
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig)
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return (lvl < zapcore.ErrorLevel) != (lvl == zapcore.DebugLevel && !debug)
	})
	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, os.Stderr, lowPriority),
		zapcore.NewCore(consoleEncoder, os.Stderr, highPriority),
	)
	logger := zap.New(core)
	if debug {
		logger = logger.WithOptions(
			zap.Development(),
			zap.AddCaller(),
			zap.AddStacktrace(highPriority),
		)
	} else {
		logger = logger.WithOptions(
			zap.AddCaller(),
		)
	}
	log = logger.Sugar()
}

func main() {
	defer log.Sync()
	// register internal stats
	mon.RegisterGcStats()
	app := &cli.Command{
		Name:        "gaia2mqtt",
		Description: "Bridge an AQICN GAIA station to Home Assistant via MQTT discovery",
		Version:     version,
		HideHelp:    true,
	}
	log.Infof("Starting %s version: %s", app.Name, version)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "help, h", Usage: "show help"},
		&cli.BoolFlag{Name: "debug, d", Usage: "enable debug logs"},
		&cli.StringFlag{Name: "config, c",
			Usage: "config file. Will be created if it does not exist",
		},
		&cli.StringFlag{
			Name:  "device-host",
			Usage: "GAIA station address (host or host:port, no scheme)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("DEVICE_HOST"),
			),
		},
		&cli.StringFlag{
			Name:  "device-id",
			Usage: "device id in Home Assistant, defaults to sanitized device host",
		},
		&cli.StringFlag{
			Name:  "device-name",
			Usage: "device display name in Home Assistant",
		},
		&cli.StringFlag{
			Name:  "mqtt-addr",
			Usage: "mqtt broker address",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MQTT_ADDR"),
			),
		},
		&cli.StringFlag{
			Name:  "discovery-prefix",
			Value: "homeassistant",
			Usage: "Home Assistant MQTT discovery prefix",
		},
		&cli.StringFlag{
			Name:  "listen-addr",
			Usage: "address for the status API, disabled by default",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("LISTEN_ADDR"),
			),
		},
		&cli.IntFlag{
			Name:  "poll-interval",
			Value: 60,
			Usage: "station poll interval in seconds",
		},
		&cli.StringFlag{
			Name:  "history-driver",
			Value: "sqlite",
			Usage: "history store driver, sqlite or postgres",
		},
		&cli.StringFlag{
			Name:  "history-dsn",
			Usage: "history store DSN, history disabled when empty",
		},
		&cli.IntFlag{
			Name:  "history-retention-days",
			Value: 30,
			Usage: "days of samples to keep, 0 keeps everything",
		},
		&cli.StringFlag{
			Name:  "pprof-addr",
			Value: "",
			Usage: "address to run pprof on, disabled by default",
		},
	}
	app.Action = run
	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	if c.Bool("help") {
		cli.ShowAppHelp(c)
		os.Exit(1)
	}
	cfg := config.Config{
		DeviceHost:           c.String("device-host"),
		DeviceID:             c.String("device-id"),
		DeviceName:           c.String("device-name"),
		MQTTAddress:          c.String("mqtt-addr"),
		DiscoveryPrefix:      c.String("discovery-prefix"),
		ListenAddress:        c.String("listen-addr"),
		PollIntervalSeconds:  int(c.Int("poll-interval")),
		HistoryDriver:        c.String("history-driver"),
		HistoryDSN:           c.String("history-dsn"),
		HistoryRetentionDays: int(c.Int("history-retention-days")),
		Debug:                c.Bool("debug"),
		PProfAddress:         c.String("pprof-addr"),
	}
	if c.String("config") != "" {
		if err := yamlcfg.LoadConfig([]string{c.String("config")}, &cfg); err != nil {
			log.Fatal(err)
		}
	}
	if cfg.DeviceHost == "" {
		log.Panic("must specify --device-host")
	}
	if cfg.MQTTAddress == "" {
		log.Panic("must specify --mqtt-addr")
	}
	debug = cfg.Debug
	log.Debug("debug enabled")
	if cfg.DeviceID == "" {
		cfg.DeviceID = sanitizeID(cfg.DeviceHost)
	}

	client := gaia.New(gaia.Config{
		Host:   cfg.DeviceHost,
		Logger: log.Named("api"),
	})
	coord := coordinator.New(coordinator.Config{
		Client:   client,
		Logger:   log.Named("coordinator"),
		Interval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
	})

	// the initial poll doubles as the setup-time reachability check and
	// seeds entity discovery
	setupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := coord.Refresh(setupCtx); err != nil {
		log.Panicf("cannot reach station at %s: %s", cfg.DeviceHost, err)
	}
	sensors := sensor.Discover(coord.Data())
	log.Infof("discovered %d sensors from %d flat keys", len(sensors), len(coord.Data()))

	publisher, err := hass.New(hass.Config{
		MQTTAddr:        cfg.MQTTAddress,
		Logger:          log.Named("mq"),
		DeviceID:        cfg.DeviceID,
		DeviceName:      cfg.DeviceName,
		DiscoveryPrefix: cfg.DiscoveryPrefix,
		Version:         version,
	})
	if err != nil {
		log.Panicf("error connecting to MQTT: %s", err)
	}
	defer publisher.Close()
	if err := publisher.Announce(sensors); err != nil {
		log.Panicf("error announcing sensors: %s", err)
	}

	var store *history.Store
	if cfg.HistoryDSN != "" {
		store, err = history.Open(history.Config{
			Driver:    cfg.HistoryDriver,
			DSN:       cfg.HistoryDSN,
			Logger:    log.Named("history"),
			Retention: time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour,
		})
		if err != nil {
			log.Panicf("error opening history store: %s", err)
		}
	}

	coord.OnUpdate(func(flat gaia.FlatMap) {
		publisher.PublishStates(flat)
		mon.GlobalStatus.Update(mon.Ok, "ok")
		if store != nil {
			if err := store.Record(time.Now(), flat); err != nil {
				log.Warnf("error recording history: %s", err)
			}
		}
	})
	coord.OnFailure(func(err error) {
		if mqErr := publisher.SetAvailability(false); mqErr != nil {
			log.Warnf("could not publish availability: %s", mqErr)
		}
		mon.GlobalStatus.Update(mon.Warning, fmt.Sprintf("poll failed: %s", err))
	})
	publisher.PublishStates(coord.Data())
	mon.GlobalStatus.Update(mon.Ok, "ok")

	if len(cfg.PProfAddress) > 0 {
		log.Infof("listening pprof on %s", cfg.PProfAddress)
		go func() {
			log.Errorf("failed to start debug listener: %s (ignoring)", http.ListenAndServe(cfg.PProfAddress, nil))
		}()
	}
	if len(cfg.ListenAddress) > 0 {
		w, err := web.New(web.Config{
			Logger:      log.Named("web"),
			ListenAddr:  cfg.ListenAddress,
			Coordinator: coord,
			Sensors:     sensors,
			History:     store,
			Debug:       cfg.Debug,
		})
		if err != nil {
			log.Panicf("error starting web listener: %s", err)
		}
		go func() {
			exit <- w.Run()
		}()
	}

	go coord.Run(ctx, coordinator.Ticker{})
	return <-exit
}

// sanitizeID turns a host address into something usable as an MQTT topic
// segment and HA object id.
func sanitizeID(host string) string {
	return strings.NewReplacer(".", "-", ":", "-").Replace(host)
}
