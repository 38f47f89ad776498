// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package main contains dataimport main function to start the dataimport
// service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"golang.org/x/sync/errgroup"

	"github.com/searchsync/dataimport/consumers/opensearch"
	"github.com/searchsync/dataimport/importer"
	"github.com/searchsync/dataimport/importer/api"
	"github.com/searchsync/dataimport/importer/middleware"
	dilog "github.com/searchsync/dataimport/logger"
	"github.com/searchsync/dataimport/pkg/prometheus"
	"github.com/searchsync/dataimport/pkg/server"
	httpserver "github.com/searchsync/dataimport/pkg/server/http"
	"github.com/searchsync/dataimport/pkg/uuid"
	"github.com/searchsync/dataimport/sources"
	"github.com/searchsync/dataimport/sources/mongodb"
)

const (
	svcName             = "dataimport"
	envPrefixMongo      = "DI_MONGO_"
	envPrefixOpenSearch = "DI_OPENSEARCH_"
	envPrefixHTTP       = "DI_HTTP_"
	defSvcHTTPPort      = "9099"
)

type config struct {
	LogLevel   string `env:"DI_LOG_LEVEL"   envDefault:"info"`
	InstanceID string `env:"DI_INSTANCE_ID" envDefault:""`
}

type sourceConfig struct {
	Database   string `env:"DATABASE"    envDefault:""`
	Host       string `env:"HOST"        envDefault:"localhost"`
	Port       string `env:"PORT"        envDefault:"27017"`
	Username   string `env:"USERNAME"    envDefault:""`
	Password   string `env:"PASSWORD"    envDefault:""`
	AuthSource string `env:"AUTH_SOURCE" envDefault:"admin"`
}

func (cfg sourceConfig) properties() sources.Properties {
	return sources.Properties{
		mongodb.DatabaseKey:   cfg.Database,
		mongodb.HostKey:       cfg.Host,
		mongodb.PortKey:       cfg.Port,
		mongodb.UsernameKey:   cfg.Username,
		mongodb.PasswordKey:   cfg.Password,
		mongodb.AuthSourceKey: cfg.AuthSource,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := dilog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer dilog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	srcCfg := sourceConfig{}
	if err := env.ParseWithOptions(&srcCfg, env.Options{Prefix: envPrefixMongo}); err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}

	source := mongodb.New(logger)
	if err := source.Init(ctx, srcCfg.properties()); err != nil {
		logger.Error(fmt.Sprintf("failed to initialize mongodb data source: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := source.Close(context.Background()); err != nil {
			logger.Warn(fmt.Sprintf("failed to close mongodb data source: %s", err))
		}
	}()

	osCfg := opensearch.Config{}
	if err := env.ParseWithOptions(&osCfg, env.Options{Prefix: envPrefixOpenSearch}); err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	osClient, err := opensearch.Connect(ctx, osCfg)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect to opensearch: %s", err))
		exitCode = 1
		return
	}

	svc := newService(source, osClient, logger)

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(source sources.DataSource, osClient *opensearchgo.Client, logger *slog.Logger) importer.Service {
	consumer := opensearch.New(osClient, logger)
	svc := importer.New(source, consumer, uuid.New())
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "importer")
	svc = middleware.MetricsMiddleware(svc, counter, latency)

	return svc
}
