package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bitmall/storefront/config"
	"github.com/bitmall/storefront/internal/account"
	"github.com/bitmall/storefront/internal/api"
	"github.com/bitmall/storefront/internal/app"
	"github.com/bitmall/storefront/internal/auth"
	"github.com/bitmall/storefront/internal/cart"
	"github.com/bitmall/storefront/internal/catalog"
	"github.com/bitmall/storefront/internal/checkout"
	"github.com/bitmall/storefront/internal/mailer"
	"github.com/bitmall/storefront/internal/order"
	"github.com/bitmall/storefront/internal/webserver"
)

var (
	cfile   = flag.String("c", "/etc/storefront.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the schema, then exit")
	showVer = flag.Bool("v", false, "print version and exit")
)

const version = "1.2.0"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("storefront", version)
		return
	}

	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		// default config still works when the file is absent
		cfg, err = config.LoadConfig("")
		if err != nil {
			fmt.Fprintln(os.Stderr, "configuration error:", err)
			os.Exit(1)
		}
	}
	if err := cfg.InitWorkdir(); err != nil {
		fmt.Fprintln(os.Stderr, "workdir error:", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	db := application.DB()
	bus := application.Bus()

	userRepo := account.NewGormRepository(db)
	productRepo := catalog.NewGormRepository(db)
	orderRepo := order.NewGormRepository(db)
	auditStore := order.NewGormAuditStore(db)

	authSvc := auth.NewService(userRepo, cfg.Web.JwtSecret, 24*time.Hour)
	catalogSvc := catalog.NewService(productRepo)
	cartSvc := cart.NewService(userRepo, bus)
	orderSvc := order.NewService(orderRepo, userRepo, productRepo, auditStore, bus)
	accountSvc := account.NewService(userRepo, productRepo, bus)
	checkoutSvc := checkout.NewService(orderRepo, cartSvc, productRepo, userRepo).
		WithBus(bus).
		WithNotifier(mailer.New(cfg.Mail), application.WorkerPool())

	srv := webserver.New(cfg)
	api.New(srv, authSvc, catalogSvc, cartSvc, checkoutSvc, orderSvc, accountSvc, bus).
		WithSettings(application.ConfigMgr()).
		Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
