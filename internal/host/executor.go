package host

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/platform/logger"
	"pet-market-engine/internal/platform/metrics"
	"pet-market-engine/internal/storage/kv"
)

// Call es una invocación entrante ya autenticada por el transporte.
type Call struct {
	Sender    string
	BlockTime *uint64 // nil = reloj del host
	Funds     []Coin
	Msg       json.RawMessage
}

type Options struct {
	Store  kv.Store
	Clock  *Clock
	Sink   EffectSink
	Logger logger.Logger
}

// Executor corre una llamada por vez sobre el store de cada contrato.
// Cada init/handle escribe en un kv.Buffer que sólo se commitea si la llamada
// termina bien (o si el error viene marcado con apperr.KeepWrites).
// El block time de la llamada se commitea en el mismo batch; los efectos se
// publican después de soltar el lock.
type Executor struct {
	mu          sync.Mutex
	store       kv.Store
	clock       *Clock
	clockLoaded bool
	sink        EffectSink
	log         logger.Logger
	contracts   map[string]registered
}

type registered struct {
	contract Contract
	ref      ContractRef
}

func NewExecutor(opts Options) *Executor {
	clock := opts.Clock
	if clock == nil {
		clock = NewClock(nil)
	}
	sink := opts.Sink
	if sink == nil {
		sink = NoopSink()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{
		store:     opts.Store,
		clock:     clock,
		sink:      sink,
		log:       log,
		contracts: make(map[string]registered),
	}
}

// Register asocia un contrato a su dirección. Cada dirección tiene su propio
// namespace dentro del store.
func (e *Executor) Register(c Contract, ref ContractRef) error {
	ref.Address = strings.TrimSpace(ref.Address)
	if ref.Address == "" {
		return fmt.Errorf("contract %s: address required", c.Name())
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.contracts[c.Name()]; exists {
		return fmt.Errorf("contract %s already registered", c.Name())
	}
	e.contracts[c.Name()] = registered{contract: c, ref: ref}
	return nil
}

// Ref devuelve la dirección registrada de un contrato.
func (e *Executor) Ref(name string) (ContractRef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.contracts[name]
	return r.ref, ok
}

func (e *Executor) Init(ctx context.Context, name string, call Call) (Response, error) {
	return e.execute(ctx, name, "init", call, func(c Contract, s kv.Store, env Env) (Response, error) {
		return c.Init(ctx, s, env, call.Msg)
	})
}

func (e *Executor) Handle(ctx context.Context, name string, call Call) (Response, error) {
	return e.execute(ctx, name, "handle", call, func(c Contract, s kv.Store, env Env) (Response, error) {
		return c.Handle(ctx, s, env, call.Msg)
	})
}

// Query corre sin buffer sobre una vista de solo lectura.
func (e *Executor) Query(ctx context.Context, name string, call Call) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg, ok := e.contracts[name]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "unknown contract %q", name)
	}
	if err := e.loadClock(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	env := Env{
		CallID:    uuid.NewString(),
		Sender:    strings.TrimSpace(call.Sender),
		BlockTime: e.clock.At(call.BlockTime),
		Contract:  reg.ref,
	}
	out, err := reg.contract.Query(ctx, kv.ScopeRead(e.store, contractPrefix, []byte(reg.ref.Address)), env, call.Msg)
	metrics.RecordCall(name, "query", resultLabel(err), time.Since(start))
	if err != nil {
		e.log.Debug("query failed", map[string]any{
			"call_id":  env.CallID,
			"contract": name,
			"error":    err,
		})
	}
	return out, err
}

type entryFunc func(c Contract, s kv.Store, env Env) (Response, error)

func (e *Executor) execute(ctx context.Context, name, entry string, call Call, fn entryFunc) (Response, error) {
	resp, env, log, err := e.commit(ctx, name, entry, call, fn)
	if err != nil {
		return Response{}, err
	}
	if len(resp.Effects) > 0 {
		// Los efectos ya quedaron en la respuesta; un relay caído no revierte la llamada.
		if perr := e.sink.Publish(ctx, name, env.CallID, resp.Effects); perr != nil {
			log.Warn("effect relay failed", map[string]any{"error": perr, "effects": len(resp.Effects)})
		}
	}
	return resp, nil
}

// commit corre la llamada bajo el lock y deja storage y reloj consistentes.
func (e *Executor) commit(ctx context.Context, name, entry string, call Call, fn entryFunc) (Response, Env, logger.Logger, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.log
	reg, ok := e.contracts[name]
	if !ok {
		return Response{}, Env{}, log, apperr.Wrap(apperr.ErrNotFound, "unknown contract %q", name)
	}
	if err := e.loadClock(ctx); err != nil {
		return Response{}, Env{}, log, err
	}

	start := time.Now()
	env := Env{
		CallID:    uuid.NewString(),
		Sender:    strings.TrimSpace(call.Sender),
		BlockTime: e.clock.At(call.BlockTime),
		Funds:     call.Funds,
		Contract:  reg.ref,
	}
	log = e.log.With(map[string]any{
		"call_id":    env.CallID,
		"contract":   name,
		"entry":      entry,
		"sender":     env.Sender,
		"block_time": env.BlockTime,
	})

	buf := kv.NewBuffer(e.store)
	resp, err := fn(reg.contract, contractStore(buf, reg.ref), env)

	if err == nil || apperr.ShouldKeepWrites(err) {
		cerr := saveClock(ctx, buf, env.BlockTime)
		if cerr == nil {
			cerr = buf.Commit(ctx)
		}
		if cerr != nil {
			metrics.RecordCall(name, entry, "commit_error", time.Since(start))
			log.Error("commit failed", map[string]any{"error": cerr})
			return Response{}, env, log, fmt.Errorf("commit call %s: %w", env.CallID, cerr)
		}
		e.clock.Floor(env.BlockTime)
	} else {
		buf.Discard()
	}

	metrics.RecordCall(name, entry, resultLabel(err), time.Since(start))
	if err != nil {
		log.Info("call rejected", map[string]any{"error": err})
		return Response{}, env, log, err
	}

	if resp.Effects == nil {
		resp.Effects = []Effect{}
	}
	for _, ef := range resp.Effects {
		metrics.RecordEffect(name, string(ef.Kind))
	}
	log.Info("call committed", map[string]any{"effects": len(resp.Effects)})
	return resp, env, log, nil
}

var (
	contractPrefix = []byte("contract")
	hostPrefix     = []byte("host")
	clockKey       = []byte("clock")
)

func contractStore(s kv.Store, ref ContractRef) kv.Store {
	return kv.Scope(s, contractPrefix, []byte(ref.Address))
}

// loadClock restaura una sola vez el último block time commiteado.
// Se llama con e.mu tomado.
func (e *Executor) loadClock(ctx context.Context) error {
	if e.clockLoaded {
		return nil
	}
	raw, ok, err := kv.ScopeRead(e.store, hostPrefix).Get(ctx, clockKey)
	if err != nil {
		return fmt.Errorf("load host clock: %w", err)
	}
	if ok {
		if len(raw) != 8 {
			return apperr.Wrap(apperr.ErrSerialization, "corrupted host clock (%d bytes)", len(raw))
		}
		e.clock.Floor(binary.BigEndian.Uint64(raw))
	}
	e.clockLoaded = true
	return nil
}

func saveClock(ctx context.Context, s kv.Store, t uint64) error {
	return kv.Scope(s, hostPrefix).Set(ctx, clockKey, binary.BigEndian.AppendUint64(nil, t))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, apperr.ErrInvalidDenomination):
		return "invalid_denomination"
	case errors.Is(err, apperr.ErrEmptyDeposit):
		return "empty_deposit"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrAlreadyDead):
		return "already_dead"
	case errors.Is(err, apperr.ErrNotFeedingTime):
		return "not_feeding_time"
	case errors.Is(err, apperr.ErrSerialization):
		return "serialization"
	case errors.Is(err, apperr.ErrOverflow):
		return "overflow"
	case errors.Is(err, apperr.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
