package pets

import (
	"context"
	"encoding/json"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/storage/kv"
)

const ContractName = "pet"

// Contract adapta Service a host.Contract: decodifica la unión y despacha.
type Contract struct {
	svc *Service
}

func NewContract(svc *Service) *Contract {
	if svc == nil {
		svc = NewService()
	}
	return &Contract{svc: svc}
}

func (c *Contract) Name() string { return ContractName }

func (c *Contract) Init(ctx context.Context, store kv.Store, env host.Env, raw json.RawMessage) (host.Response, error) {
	var msg InitMsg
	if err := host.DecodeMsg(raw, &msg); err != nil {
		return host.Response{}, err
	}
	return c.svc.Init(ctx, store, env, msg)
}

func (c *Contract) Handle(ctx context.Context, store kv.Store, env host.Env, raw json.RawMessage) (host.Response, error) {
	var msg HandleMsg
	if err := host.DecodeMsg(raw, &msg); err != nil {
		return host.Response{}, err
	}
	if err := msg.validate(); err != nil {
		return host.Response{}, err
	}

	switch {
	case msg.CreatePet != nil:
		ans, err := c.svc.CreatePet(ctx, store, env, *msg.CreatePet)
		if err != nil {
			return host.Response{}, err
		}
		return host.Response{Data: HandleAnswer{CreatePet: &ans}}, nil
	default:
		ans, err := c.svc.Receive(ctx, store, env, *msg.Receive)
		if err != nil {
			return host.Response{}, err
		}
		return host.Response{Data: HandleAnswer{Feed: &ans}}, nil
	}
}

func (c *Contract) Query(ctx context.Context, r kv.Reader, env host.Env, raw json.RawMessage) (any, error) {
	var msg QueryMsg
	if err := host.DecodeMsg(raw, &msg); err != nil {
		return nil, err
	}
	if err := msg.validate(); err != nil {
		return nil, err
	}

	switch {
	case msg.LastFed != nil:
		return c.svc.LastFed(ctx, r, *msg.LastFed)
	case msg.Pet != nil:
		return c.svc.Pet(ctx, r, env, *msg.Pet)
	case msg.Pets != nil:
		return c.svc.Pets(ctx, r, env, *msg.Pets)
	default:
		return c.svc.AcceptedToken(ctx, r)
	}
}
