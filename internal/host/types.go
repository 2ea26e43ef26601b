// Package host es el entorno de ejecución simulado alrededor de los contratos:
// identidad del caller, reloj de bloque, fondos adjuntos, efectos salientes y
// la ejecución serializada con commit todo-o-nada por llamada.
package host

import (
	"context"
	"encoding/json"

	"pet-market-engine/internal/platform/amount"
	"pet-market-engine/internal/storage/kv"
)

// ContractRef identifica otro contrato (dirección + code hash).
type ContractRef struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash"`
}

type Coin struct {
	Denom  string         `json:"denom"`
	Amount amount.Uint128 `json:"amount"`
}

// Env es lo que el host entrega a cada llamada.
type Env struct {
	CallID    string
	Sender    string
	BlockTime uint64
	Funds     []Coin
	Contract  ContractRef
}

type EffectKind string

const (
	EffectMint            EffectKind = "mint"
	EffectRegisterReceive EffectKind = "register_receive"
	EffectSetViewingKey   EffectKind = "set_viewing_key"
)

// Effect es una instrucción saliente opaca para el core: el host la entrega
// (o la relaya) después de commitear la llamada.
type Effect struct {
	Kind       EffectKind      `json:"kind"`
	Target     ContractRef     `json:"target"`
	Recipient  string          `json:"recipient,omitempty"`
	Amount     *amount.Uint128 `json:"amount,omitempty"`
	CodeHash   string          `json:"code_hash,omitempty"`
	ViewingKey string          `json:"viewing_key,omitempty"`
}

// Response es el resultado de init/handle.
type Response struct {
	Data    any      `json:"data,omitempty"`
	Effects []Effect `json:"effects"`
}

// Contract es lo que registra cada aplicación en el executor.
// msg llega como JSON crudo; cada contrato decodifica su propia unión de mensajes.
type Contract interface {
	Name() string
	Init(ctx context.Context, store kv.Store, env Env, msg json.RawMessage) (Response, error)
	Handle(ctx context.Context, store kv.Store, env Env, msg json.RawMessage) (Response, error)
	Query(ctx context.Context, store kv.Reader, env Env, msg json.RawMessage) (any, error)
}

// EffectSink recibe los efectos de cada llamada commiteada.
type EffectSink interface {
	Publish(ctx context.Context, contract string, callID string, effects []Effect) error
}

type noopSink struct{}

func (noopSink) Publish(context.Context, string, string, []Effect) error { return nil }

// NoopSink es el sink por defecto cuando no hay relay configurado.
func NoopSink() EffectSink { return noopSink{} }
