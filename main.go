package main

import (
	"FlowCS/ai/nlu"
	"FlowCS/dialogue"
	"FlowCS/dialogue/flow"
	"FlowCS/impl/core"
	"FlowCS/internal/config"
	"FlowCS/internal/console"
	repository "FlowCS/internal/database"
	"FlowCS/internal/http-server/api"
	"FlowCS/internal/lib/logger"
	"FlowCS/internal/lib/sl"
	"FlowCS/internal/ws"
	"context"
	"flag"
	"log/slog"
	"os"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "", "path to log file directory")
	domain := flag.String("domain", "", "starting domain for console mode")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting flowcs", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	flows, err := flow.LoadDir(conf.Flows.Dir, conf.Flows.DefaultDomain)
	if err != nil {
		lg.Error("loading flow definitions", sl.Err(err))
		os.Exit(1)
	}
	lg.With(
		slog.Any("domains", flows.Domains()),
	).Info("flow definitions loaded")

	engine := nlu.New(conf, lg)
	lg.With(
		sl.Secret("openai_key", conf.OpenAI.ApiKey),
		slog.String("model", conf.OpenAI.Model),
	).Info("nlu engine initialized")

	var store dialogue.RecordStore
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.Error("mongo client", sl.Err(err))
	}
	if db != nil {
		store = db
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo record store initialized")
	} else {
		store = repository.NewMemoryStore()
		lg.Info("using in-memory record store")
	}

	dispatcher := dialogue.NewDispatcher(store, lg)

	handler := core.New(flows, engine, engine, dispatcher, lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	if conf.Listen.Enabled {
		hub := ws.NewHub(lg)
		go hub.Run()
		handler.SetBroadcaster(hub)

		// *** blocking start with http server ***
		if err := api.New(conf, lg, handler, hub); err != nil {
			lg.Error("server start", sl.Err(err))
			return
		}
		lg.Error("service stopped")
		return
	}

	startDomain := *domain
	if startDomain == "" {
		startDomain = flows.Fallback()
	}
	interp, err := dialogue.NewInterpreter(flows, engine, engine, dispatcher, console.Printer(os.Stdout), startDomain, lg)
	if err != nil {
		lg.Error("creating session", sl.Err(err))
		os.Exit(1)
	}
	if err := console.Run(context.Background(), interp, os.Stdin, os.Stdout, lg); err != nil {
		lg.Error("console session", sl.Err(err))
		os.Exit(1)
	}
}
