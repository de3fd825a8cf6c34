package relay

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/alovak/checkout-relay/internal/metrics"
	"github.com/alovak/checkout-relay/internal/middleware"
	"github.com/alovak/checkout-relay/internal/receipt"
	"github.com/alovak/checkout-relay/processor"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// App is the relay application. It wires config, the processor client and the
// HTTP surface together and is responsible for starting and stopping them.
type App struct {
	srv    *http.Server
	wg     *sync.WaitGroup
	Addr   string
	logger *slog.Logger
	config *Config

	// Notifier is the receipt side effect used on completed orders. Set
	// before Start to override the default log-backed notifier.
	Notifier receipt.Notifier
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "relay"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	m := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(a.logger))
	router.Use(m.Middleware)

	client := processor.New(
		a.config.Environment.BaseURL(),
		a.config.ClientID,
		a.config.ClientSecret,
		nil,
		a.logger,
	)

	notifier := a.Notifier
	if notifier == nil {
		notifier = receipt.NewLogNotifier(a.logger)
	}

	service := NewService(client, notifier, m, a.logger)

	api := NewAPI(service, a.logger)
	api.AppendRoutes(router)

	assets := NewAssets(a.config.StaticDir)
	assets.AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Method(http.MethodGet, "/metrics", m.Handler())

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return err
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler: router,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started",
			slog.String("addr", a.Addr),
			slog.String("environment", string(a.config.Environment)),
		)

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	a.srv.Shutdown(context.Background())

	a.wg.Wait()

	a.logger.Info("app stopped")
}
