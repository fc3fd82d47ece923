package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Agrid-Dev/boilercalc/cmd/app"
	"github.com/Agrid-Dev/boilercalc/internal/calculator"
	httpctrl "github.com/Agrid-Dev/boilercalc/internal/controllers/http"
	modbusctrl "github.com/Agrid-Dev/boilercalc/internal/controllers/modbus"
	mqttctrl "github.com/Agrid-Dev/boilercalc/internal/controllers/mqtt"
	"github.com/Agrid-Dev/boilercalc/internal/device"
	"github.com/Agrid-Dev/boilercalc/internal/metrics"
	"github.com/Agrid-Dev/boilercalc/internal/params"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to config file (.yaml/.yml/.json)")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	app.ApplyEnvOverrides(&cfg)

	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store := params.NewStore(cfg.Parameters.Path)
	values, warns := store.Defaults()
	for _, w := range warns {
		log.Warn("parameter defaults", zap.String("path", store.Path()), zap.Error(w))
	}

	dev := device.New(cfg.DeviceID, values)
	m := metrics.New(prometheus.DefaultRegisterer)
	calc := calculator.New(log, m)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	ctrls := cfg.Controllers

	if ctrls.HTTP.Enabled {
		opts := httpctrl.Options{Store: store, Logger: log}
		if ctrls.HTTP.Metrics {
			opts.Metrics = promhttp.Handler()
		}
		srv := httpctrl.New(calc, dev, ctrls.HTTP.Addr, opts)
		g.Go(func() error { return srv.Run(ctx) })
	}

	if ctrls.MQTT.Enabled {
		mc, err := mqttctrl.New(calc, dev, mqttctrl.Config{
			BrokerURL:       ctrls.MQTT.BrokerURL,
			ClientID:        ctrls.MQTT.ClientID,
			BaseTopic:       ctrls.MQTT.BaseTopic,
			QoS:             ctrls.MQTT.QoS,
			RetainDefaults:  ctrls.MQTT.RetainDefaults,
			PublishInterval: ctrls.MQTT.PublishInterval,
			Username:        ctrls.MQTT.Username,
			Password:        ctrls.MQTT.Password,
			Logger:          log,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return mc.Run(ctx) })
	}

	if ctrls.Modbus.Enabled {
		mb, err := modbusctrl.New(calc, dev, modbusctrl.Config{
			Addr:   ctrls.Modbus.Addr,
			UnitID: ctrls.Modbus.UnitID,
			Logger: log,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return mb.Run(ctx) })
	}

	log.Info("boilercalc started",
		zap.String("device_id", dev.ID),
		zap.Bool("http", ctrls.HTTP.Enabled),
		zap.Bool("mqtt", ctrls.MQTT.Enabled),
		zap.Bool("modbus", ctrls.Modbus.Enabled),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("controller exited", zap.Error(err))
		return err
	}
	log.Info("boilercalc stopped")
	return nil
}
