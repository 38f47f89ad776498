// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package server provides a uniform lifecycle for the service's servers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// StopWaitTime is the time the server waits for graceful shutdown.
const StopWaitTime = 5 * time.Second

// Server defines the started and stoppable server API.
type Server interface {
	// Start starts the server and blocks until it is stopped or fails.
	Start() error

	// Stop gracefully stops the server.
	Stop() error
}

// Config holds the server network configuration.
type Config struct {
	Host     string `env:"HOST"        envDefault:"localhost"`
	Port     string `env:"PORT"        envDefault:""`
	CertFile string `env:"SERVER_CERT" envDefault:""`
	KeyFile  string `env:"SERVER_KEY"  envDefault:""`
}

// BaseServer carries the state shared by all server implementations.
type BaseServer struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Name     string
	Address  string
	Config   Config
	Logger   *slog.Logger
	Protocol string
}

// NewBaseServer returns a base server with the computed listen address.
func NewBaseServer(ctx context.Context, cancel context.CancelFunc, name string, config Config, logger *slog.Logger) BaseServer {
	return BaseServer{
		Ctx:     ctx,
		Cancel:  cancel,
		Name:    name,
		Address: fmt.Sprintf("%s:%s", config.Host, config.Port),
		Config:  config,
		Logger:  logger,
	}
}

func stopAllServer(servers ...Server) error {
	var err error
	for _, server := range servers {
		srvErr := server.Stop()
		if srvErr != nil {
			if err == nil {
				err = fmt.Errorf("%w", srvErr)
			} else {
				err = fmt.Errorf("%v ; %w", err, srvErr)
			}
		}
	}
	return err
}

// StopSignalHandler stops all given servers when an interrupt signal is
// received, or returns once the context is canceled.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGABRT)
	select {
	case sig := <-c:
		defer cancel()
		err := stopAllServer(servers...)
		if err != nil {
			logger.Error(fmt.Sprintf("%s service error during shutdown: %v", svcName, err))
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))
		return err
	case <-ctx.Done():
		return nil
	}
}
