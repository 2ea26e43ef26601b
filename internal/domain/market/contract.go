package market

import (
	"context"
	"encoding/json"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/storage/kv"
)

const ContractName = "market"

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
	return c.svc.BuyFood(ctx, store, env)
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
	case msg.Config != nil:
		return c.svc.Config(ctx, r)
	case msg.TotalRaised != nil:
		return c.svc.TotalRaised(ctx, r)
	default:
		return c.svc.Deposits(ctx, r, *msg.Deposits)
	}
}
