// Command storefront wires the client stack together against a running
// backend (the real API or cmd/mockapi): config, typed API clients, the
// push channel, the session manager, and the entity stores. It logs in
// with the token from the environment, loads the catalog, and then follows
// push events until interrupted.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxurygifts/storefront/internal/api"
	"github.com/luxurygifts/storefront/internal/config"
	"github.com/luxurygifts/storefront/internal/push"
	"github.com/luxurygifts/storefront/internal/session"
	"github.com/luxurygifts/storefront/internal/store"
	"github.com/luxurygifts/storefront/internal/user"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}

	token := os.Getenv("SESSION_TOKEN")
	if token == "" {
		log.Error("SESSION_TOKEN is required")
		os.Exit(1)
	}
	role := user.Role(os.Getenv("SESSION_ROLE"))
	if role == user.RoleNone {
		role = user.RoleBuyer
	}

	sharedHTTP := &http.Client{Timeout: cfg.HTTPTimeout}
	base := api.NewClient("marketplace", cfg.APIBaseURL, sharedHTTP)

	products := api.NewProductsClient(base)
	orders := api.NewOrdersClient(base)

	channel := push.NewChannel(cfg.PushURL, log)
	manager := session.NewManager(channel, log)
	base.SetTokenSource(manager.Token)

	productStore := store.NewProductStore(log)
	orderStore := store.NewOrderStore(log)
	manager.Register(productStore, orderStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Login(ctx, token, role); err != nil {
		log.Error("login", "error", err)
		os.Exit(1)
	}
	defer manager.Logout()

	if err := productStore.Fetch(manager.Context(), products.List); err != nil {
		log.Error("load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "products", productStore.Len(), "featured", len(productStore.Featured()))

	if role == user.RoleBuyer {
		if err := orderStore.FetchAs(manager.Context(), manager.Role(), orders.List); err != nil {
			log.Warn("load orders", "error", err)
		} else {
			log.Info("orders loaded", "orders", orderStore.Len())
		}
	}

	log.Info("following push events, ctrl-c to exit")
	<-ctx.Done()
	log.Info("shutting down")
}
