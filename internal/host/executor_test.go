package host

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "pet-market-engine/internal/adapters/storage/memory"
	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/kv"
)

// counter escribe "n" y decide según op si la llamada falla.
type counter struct {
	lastEnv     Env
	queryWrites bool
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Init(ctx context.Context, s kv.Store, env Env, _ json.RawMessage) (Response, error) {
	c.lastEnv = env
	return Response{}, s.Set(ctx, []byte("n"), []byte("0"))
}

func (c *counter) Handle(ctx context.Context, s kv.Store, env Env, raw json.RawMessage) (Response, error) {
	c.lastEnv = env
	var msg struct {
		Op string `json:"op"`
	}
	if err := DecodeMsg(raw, &msg); err != nil {
		return Response{}, err
	}
	n, err := readN(ctx, s)
	if err != nil {
		return Response{}, err
	}
	if err := s.Set(ctx, []byte("n"), []byte(strconv.Itoa(n+1))); err != nil {
		return Response{}, err
	}
	switch msg.Op {
	case "fail":
		return Response{}, apperr.Wrap(apperr.ErrNotFeedingTime, "fail after write")
	case "keep":
		return Response{}, apperr.KeepWrites(apperr.Wrap(apperr.ErrAlreadyDead, "keep after write"))
	}
	return Response{
		Data:    n + 1,
		Effects: []Effect{{Kind: EffectMint, Target: ContractRef{Address: "secret1food"}, Recipient: env.Sender}},
	}, nil
}

func (c *counter) Query(ctx context.Context, r kv.Reader, env Env, _ json.RawMessage) (any, error) {
	c.lastEnv = env
	_, c.queryWrites = r.(kv.Store)
	return readN(ctx, r)
}

func readN(ctx context.Context, r kv.Reader) (int, error) {
	raw, ok, err := r.Get(ctx, []byte("n"))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.Wrap(apperr.ErrNotFound, "not initialized")
	}
	return strconv.Atoi(string(raw))
}

type recordingSink struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *recordingSink) Publish(_ context.Context, contract, callID string, effects []Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, contract+":"+callID)
	return s.err
}

func newTestExecutor(t *testing.T, sink EffectSink) (*Executor, *counter) {
	t.Helper()
	e := NewExecutor(Options{
		Store: mem.NewStore(),
		Clock: NewClock(func() time.Time { return time.Unix(500, 0) }),
		Sink:  sink,
	})
	c := &counter{}
	require.NoError(t, e.Register(c, ContractRef{Address: "secret1counter", CodeHash: "h"}))
	_, err := e.Init(context.Background(), "counter", Call{Sender: "secret1admin", Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)
	return e, c
}

func handle(e *Executor, op string) (Response, error) {
	return e.Handle(context.Background(), "counter", Call{
		Sender: "secret1alice",
		Msg:    json.RawMessage(`{"op":"` + op + `"}`),
	})
}

func query(t *testing.T, e *Executor) int {
	t.Helper()
	out, err := e.Query(context.Background(), "counter", Call{Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)
	return out.(int)
}

func TestExecutor_CommitsSuccessfulCall(t *testing.T) {
	sink := &recordingSink{}
	e, c := newTestExecutor(t, sink)

	resp, err := handle(e, "inc")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data)
	require.Len(t, resp.Effects, 1)
	assert.Equal(t, "secret1alice", resp.Effects[0].Recipient)

	assert.Equal(t, 1, query(t, e))
	assert.False(t, c.queryWrites)
	assert.Equal(t, []string{"counter:" + c.lastEnv.CallID}, sink.calls)
	assert.Equal(t, ContractRef{Address: "secret1counter", CodeHash: "h"}, c.lastEnv.Contract)
}

func TestExecutor_DiscardsWritesOnError(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestExecutor(t, sink)

	_, err := handle(e, "fail")
	assert.ErrorIs(t, err, apperr.ErrNotFeedingTime)
	assert.Equal(t, 0, query(t, e))
	assert.Empty(t, sink.calls)
}

func TestExecutor_KeepWritesCommitsAndReturnsError(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	_, err := handle(e, "keep")
	assert.ErrorIs(t, err, apperr.ErrAlreadyDead)
	assert.Equal(t, 1, query(t, e))
}

func TestExecutor_SinkFailureDoesNotRevert(t *testing.T) {
	sink := &recordingSink{err: errors.New("relay down")}
	e, _ := newTestExecutor(t, sink)

	_, err := handle(e, "inc")
	require.NoError(t, err)
	assert.Equal(t, 1, query(t, e))
	assert.Len(t, sink.calls, 1)
}

func TestExecutor_UnknownContractAndDecodeErrors(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	_, err := e.Handle(context.Background(), "nope", Call{Msg: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.Query(context.Background(), "nope", Call{Msg: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = handle(e, `inc","extra":"x`)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, 0, query(t, e))
}

func TestExecutor_Register(t *testing.T) {
	e := NewExecutor(Options{Store: mem.NewStore()})
	assert.Error(t, e.Register(&counter{}, ContractRef{}))
	require.NoError(t, e.Register(&counter{}, ContractRef{Address: "secret1a"}))
	assert.Error(t, e.Register(&counter{}, ContractRef{Address: "secret1b"}))

	ref, ok := e.Ref("counter")
	require.True(t, ok)
	assert.Equal(t, "secret1a", ref.Address)
}

func TestExecutor_BlockTime(t *testing.T) {
	e, c := newTestExecutor(t, nil)
	assert.Equal(t, uint64(500), c.lastEnv.BlockTime)

	t1 := uint64(1000)
	_, err := e.Handle(context.Background(), "counter", Call{Sender: "secret1alice", BlockTime: &t1, Msg: json.RawMessage(`{"op":"inc"}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), c.lastEnv.BlockTime)

	// Una escritura no puede retroceder el reloj.
	t0 := uint64(900)
	_, err = e.Handle(context.Background(), "counter", Call{Sender: "secret1alice", BlockTime: &t0, Msg: json.RawMessage(`{"op":"inc"}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), c.lastEnv.BlockTime)

	// Una query tampoco ve un instante anterior al último bloque.
	_, err = e.Query(context.Background(), "counter", Call{BlockTime: &t0, Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), c.lastEnv.BlockTime)

	t2 := uint64(5000)
	_, err = e.Query(context.Background(), "counter", Call{BlockTime: &t2, Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), c.lastEnv.BlockTime)
}

func TestExecutor_RejectedCallDoesNotMoveClock(t *testing.T) {
	e, c := newTestExecutor(t, nil)

	t1 := uint64(9000)
	_, err := e.Handle(context.Background(), "counter", Call{Sender: "secret1alice", BlockTime: &t1, Msg: json.RawMessage(`{"op":"fail"}`)})
	require.Error(t, err)

	t0 := uint64(600)
	_, err = e.Query(context.Background(), "counter", Call{BlockTime: &t0, Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(600), c.lastEnv.BlockTime)
}

func TestExecutor_ClockSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := mem.NewStore()
	clock := func() *Clock { return NewClock(func() time.Time { return time.Unix(0, 0) }) }

	first := NewExecutor(Options{Store: store, Clock: clock()})
	require.NoError(t, first.Register(&counter{}, ContractRef{Address: "secret1counter"}))
	t1 := uint64(50000)
	_, err := first.Init(ctx, "counter", Call{Sender: "secret1admin", BlockTime: &t1, Msg: json.RawMessage(`{}`)})
	require.NoError(t, err)

	// Mismo store, proceso nuevo: el piso sale del storage.
	second := NewExecutor(Options{Store: store, Clock: clock()})
	c := &counter{}
	require.NoError(t, second.Register(c, ContractRef{Address: "secret1counter"}))

	early := uint64(5000)
	_, err = second.Handle(ctx, "counter", Call{Sender: "secret1alice", BlockTime: &early, Msg: json.RawMessage(`{"op":"inc"}`)})
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), c.lastEnv.BlockTime)
}

func TestExecutor_CorruptedClock(t *testing.T) {
	ctx := context.Background()
	store := mem.NewStore()
	require.NoError(t, kv.Scope(store, hostPrefix).Set(ctx, clockKey, []byte("x")))

	e := NewExecutor(Options{Store: store})
	require.NoError(t, e.Register(&counter{}, ContractRef{Address: "secret1counter"}))
	_, err := e.Init(ctx, "counter", Call{Sender: "secret1admin", Msg: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, apperr.ErrSerialization)
}

// blockingSink retiene Publish hasta que el test lo libera.
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSink) Publish(ctx context.Context, _, _ string, _ []Effect) error {
	close(s.entered)
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return nil
}

func TestExecutor_SlowSinkDoesNotBlockCalls(t *testing.T) {
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	e, _ := newTestExecutor(t, sink)
	defer close(sink.release)

	done := make(chan error, 1)
	go func() {
		_, err := handle(e, "inc")
		done <- err
	}()

	select {
	case <-sink.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("sink never called")
	}

	type answer struct {
		out any
		err error
	}
	result := make(chan answer, 1)
	go func() {
		out, err := e.Query(context.Background(), "counter", Call{Msg: json.RawMessage(`{}`)})
		result <- answer{out, err}
	}()
	select {
	case a := <-result:
		require.NoError(t, a.err)
		assert.Equal(t, 1, a.out)
	case <-time.After(time.Second):
		t.Fatal("query blocked behind effect publishing")
	}

	select {
	case err := <-done:
		t.Fatalf("handle returned before the sink finished: %v", err)
	default:
	}
}

func TestDecodeMsg(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, DecodeMsg(json.RawMessage(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)

	assert.ErrorIs(t, DecodeMsg(nil, &v), apperr.ErrInvalidInput)
	assert.ErrorIs(t, DecodeMsg(json.RawMessage(`{"b":1}`), &v), apperr.ErrInvalidInput)
	assert.ErrorIs(t, DecodeMsg(json.RawMessage(`{"a":1}{"a":2}`), &v), apperr.ErrInvalidInput)
}

func TestExactlyOne(t *testing.T) {
	assert.NoError(t, ExactlyOne("handle", false, true))
	assert.ErrorIs(t, ExactlyOne("handle", false, false), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ExactlyOne("handle", true, true), apperr.ErrInvalidInput)
}
