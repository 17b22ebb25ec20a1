package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/configs"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/migrations"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/repositories"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/routes"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/renderer"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/sessions"
	"github.com/urfave/cli/v3"
)

const sweepInterval = 5 * time.Minute

func RunCli() {
	cmd := &cli.Command{
		Name:   "storefront",
		Usage:  "EcoBazaarX storefront",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the storefront web server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Create the checkout session table",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(configs.LoadEnv())
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session, encryption and CSRF keys into an env file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env-file",
						Value: ".env",
						Usage: "file the keys are written to",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(c.String("env-file")); err != nil {
						return err
					}
					log.Println("✅ Key generation complete.")
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	env := configs.LoadEnv()

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return fmt.Errorf("session keys: %w (run `generate-keys` first)", err)
	}
	widget, err := configs.LoadPaymentWidget(env)
	if err != nil {
		return err
	}
	checkouts, err := checkoutRepository(env)
	if err != nil {
		return err
	}

	client := services.NewBackendClient(env.APIBaseURL, env.APITimeout)
	registry := services.NewSessionRegistry(client, checkouts)
	go registry.RunSweeper(ctx, sweepInterval, env.SessionIdleTimeout)

	router := routes.NewRouter(routes.Dependencies{
		Env:      env,
		Render:   renderer.New(env.TemplatesDir, !env.IsProduction()),
		Sessions: sessions.NewCookieSessionStore(env.SessionIdleTimeout, env.IsProduction(), keys.AuthKey, keys.EncKey),
		Registry: registry,
		Widget:   widget,
		CSRFKey:  keys.CSRFKey,
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s (backend %s, checkout store %s)", server.Addr, env.APIBaseURL, env.CheckoutStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func checkoutRepository(env configs.ENV) (repositories.CheckoutSessionRepository, error) {
	switch env.CheckoutStore {
	case configs.CheckoutStoreMemory:
		log.Println("Checkout progress kept in memory.")
		return repositories.NewMemoryCheckoutSessionRepository(), nil
	case configs.CheckoutStoreMySQL:
		db, err := configs.OpenConnection(env)
		if err != nil {
			return nil, err
		}
		if err := migrations.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate checkout sessions: %w", err)
		}
		log.Println("✅ Database connected.")
		return repositories.NewGormCheckoutSessionRepository(db), nil
	}
	return nil, fmt.Errorf("unknown CHECKOUT_STORE %q", env.CheckoutStore)
}
