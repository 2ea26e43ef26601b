package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-market-engine/docs"
	mem "pet-market-engine/internal/adapters/storage/memory"
	"pet-market-engine/internal/domain/market"
	"pet-market-engine/internal/domain/pets"
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/middleware"
	"pet-market-engine/internal/platform/logger"
	"pet-market-engine/internal/platform/metrics"
	"pet-market-engine/internal/ports/auth"
	"pet-market-engine/internal/storage/kv"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si no viene, in-memory.
	Store kv.Store

	Clock  *host.Clock
	Sink   host.EffectSink
	Logger logger.Logger

	// Direcciones de los contratos; vacías usan DefaultMarket / DefaultPet.
	Market host.ContractRef
	Pet    host.ContractRef
}

var (
	DefaultMarket = host.ContractRef{Address: "secret1market", CodeHash: "market"}
	DefaultPet    = host.ContractRef{Address: "secret1pet", CodeHash: "pet"}
)

// NewExecutor registra Market y Pet sobre el store de opts.
func NewExecutor(opts Options) (*host.Executor, error) {
	store := opts.Store
	if store == nil {
		store = mem.NewStore()
	}
	exec := host.NewExecutor(host.Options{
		Store:  store,
		Clock:  opts.Clock,
		Sink:   opts.Sink,
		Logger: opts.Logger,
	})

	marketRef, petRef := opts.Market, opts.Pet
	if marketRef.Address == "" {
		marketRef = DefaultMarket
	}
	if petRef.Address == "" {
		petRef = DefaultPet
	}
	if marketRef.Address == petRef.Address {
		return nil, fmt.Errorf("market and pet share address %q", marketRef.Address)
	}

	if err := exec.Register(market.NewContract(nil), marketRef); err != nil {
		return nil, err
	}
	if err := exec.Register(pets.NewContract(nil), petRef); err != nil {
		return nil, err
	}
	return exec, nil
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	opts.Logger = log

	exec, err := NewExecutor(opts)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))
	r.Use(metrics.InstrumentHandler)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por contrato
	market.RegisterRoutes(r, exec)
	pets.RegisterRoutes(r, exec)

	return r, nil
}
