package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lymstore/storefront/config"
	_ "github.com/lymstore/storefront/docs"
	"github.com/lymstore/storefront/internal/adminapi"
	"github.com/lymstore/storefront/internal/app"
	"github.com/lymstore/storefront/internal/storeapi"
	"github.com/lymstore/storefront/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	port     = flag.Int("port", 0, "web port, overrides config")
	debug    = flag.Bool("debug", false, "debug mode")
)

func usage() {
	fmt.Fprintf(os.Stderr, `storefront shop backend
Usage: storefront [-h] [-c config.yml] [-initdb] [-port 8080] [-debug]
Options:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}

	cfg := config.LoadConfig(*conffile)
	if *port > 0 {
		cfg.Web.Port = *port
	}
	if *debug {
		cfg.System.Debug = true
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		application.SeedData()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.Init()
	storeapi.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down")
		return nil
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
