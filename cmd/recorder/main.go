package main

import (
	"context"
	"os"
	"time"

	"github.com/giongto35/screen-recorder/pkg/audio/portaudio"
	"github.com/giongto35/screen-recorder/pkg/capture/screen"
	"github.com/giongto35/screen-recorder/pkg/cloud"
	"github.com/giongto35/screen-recorder/pkg/config"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/monitoring"
	oss "github.com/giongto35/screen-recorder/pkg/os"
	"github.com/giongto35/screen-recorder/pkg/recorder"
	"github.com/giongto35/screen-recorder/pkg/service"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/giongto35/screen-recorder/pkg/sink/file"
	"github.com/giongto35/screen-recorder/pkg/thread"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

var Version = "?"

const shutdownTimeout = 30 * time.Second

func run() int {
	args := os.Args[1:]
	conf, err := config.NewRecorderConfig(config.ConfigPath(args))
	if err != nil {
		logger.Default().Error().Err(err).Msg("config")
		return 1
	}
	if err = conf.ParseFlags(flag.CommandLine, args); err != nil {
		return 2
	}

	log := logger.NewWithOptions(logger.Options{
		Debug:   conf.Log.Debug,
		Console: conf.Log.Console,
		NoColor: conf.Log.NoColor,
		Tag:     "recorder",
	})
	log.Info().Msgf("version %s", Version)
	log.Debug().Msgf("conf: %+v", conf)
	if unknown := config.UnknownEnv(&conf); len(unknown) > 0 {
		log.Warn().Strs("env", unknown).Msg("unknown config env vars are ignored")
	}

	opts, err := conf.Options()
	if err != nil {
		log.Error().Err(err).Msg("bad recorder config")
		return 1
	}
	opts.Registerer = prometheus.DefaultRegisterer
	sources, overlays, err := conf.Sources()
	if err != nil {
		log.Error().Err(err).Msg("bad capture config")
		return 1
	}

	ctx, cancel := oss.ExpectTermination(context.Background())
	defer cancel()

	c := recorder.Components{
		Capture:  screen.Factory(log),
		Sink:     file.New(log),
		Sources:  sources,
		Overlays: overlays,
	}
	if opts.Sink.AudioEnabled {
		c.Audio = portaudio.NewMicrophone(conf.AudioFormat(), log)
	}
	rec := recorder.New(opts, c, log)

	var services service.Group
	if conf.Monitoring.IsEnabled() {
		mon := monitoring.New(conf.Monitoring, nil, log)
		if ev := mon.Events(); ev != nil {
			rec.SetObserver(ev)
		}
		mon.Control(rec)
		services.Add(mon)
	}
	if conf.Storage.IsEnabled() {
		st, err := cloud.Store(ctx, conf.Storage, log)
		if err != nil {
			log.Error().Err(err).Msgf("no %v storage, recordings stay local", conf.Storage.Provider)
		} else {
			up := cloud.NewUploader(st, conf.Storage.Prefix, log)
			rec.SetObserver(up)
			services.Add(up)
		}
	}
	services.Start()

	code := 0
	if err = rec.Begin(ctx, sink.Destination{Path: conf.Output.Path}); err != nil {
		log.Error().Err(err).Msg("recording")
		code = 1
	} else if res := rec.Wait(); res.Failed() {
		code = 1
	}

	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := services.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	return code
}

func main() {
	code := 0
	thread.MainWrapMaybe(func() { code = run() })
	os.Exit(code)
}
