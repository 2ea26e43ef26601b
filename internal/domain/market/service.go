package market

import (
	"context"
	"errors"
	"strings"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/appendlist"
	"pet-market-engine/internal/storage/kv"
	"pet-market-engine/internal/storage/singleton"
)

var (
	config = singleton.New[State]("config")

	depositsPrefix = []byte("deposits")
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Init guarda la config. El token de comida ya tiene que estar deployado:
// no se emiten efectos.
func (s *Service) Init(ctx context.Context, store kv.Store, env host.Env, in InitMsg) (host.Response, error) {
	token := host.ContractRef{
		Address:  strings.TrimSpace(in.TokenContract.Address),
		CodeHash: strings.TrimSpace(in.TokenContract.CodeHash),
	}
	if token.Address == "" || token.CodeHash == "" {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "token_contract address and code_hash are required")
	}
	if in.ExchangeRate.IsZero() {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "exchange_rate must be greater than zero")
	}
	if _, exists, err := config.MayLoad(ctx, store); err != nil {
		return host.Response{}, err
	} else if exists {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "contract already initialized")
	}

	denom := strings.TrimSpace(in.AcceptedDenom)
	if denom == "" {
		denom = DefaultDenom
	}
	admin := env.Sender
	if in.Admin != nil && strings.TrimSpace(*in.Admin) != "" {
		admin = strings.TrimSpace(*in.Admin)
	}

	st := State{
		AcceptedDenom:   denom,
		TokenContract:   token,
		ExchangeRate:    in.ExchangeRate,
		Admin:           admin,
		ContractAddress: env.Contract.Address,
		TotalRaised:     amount.Zero(),
		ViewingKey:      in.ViewingKey,
	}
	if err := config.Save(ctx, store, st); err != nil {
		return host.Response{}, err
	}
	return host.Response{}, nil
}

// BuyFood acredita los fondos adjuntos y mintea total*exchange_rate al caller.
func (s *Service) BuyFood(ctx context.Context, store kv.Store, env host.Env) (host.Response, error) {
	st, err := config.Load(ctx, store)
	if err != nil {
		return host.Response{}, err
	}
	depositor := strings.TrimSpace(env.Sender)
	if depositor == "" {
		return host.Response{}, apperr.Wrap(apperr.ErrUnauthorized, "caller identity required")
	}

	total, err := DepositTotal(env.Funds, st.AcceptedDenom)
	if err != nil {
		return host.Response{}, err
	}
	next, mint, err := st.Credit(total)
	if err != nil {
		return host.Response{}, err
	}
	if err := config.Save(ctx, store, next); err != nil {
		return host.Response{}, err
	}

	receipts, err := appendlist.AttachOrCreate[Deposit](ctx, kv.Scope(store, depositsPrefix, []byte(depositor)))
	if err != nil {
		return host.Response{}, err
	}
	if err := receipts.Push(ctx, Deposit{Amount: total, Minted: mint, BlockTime: env.BlockTime}); err != nil {
		return host.Response{}, err
	}

	return host.Response{
		Data: HandleAnswer{BuyFood: &BuyFoodAnswer{Deposited: total, Minted: mint}},
		Effects: []host.Effect{{
			Kind:      host.EffectMint,
			Target:    st.TokenContract,
			Recipient: depositor,
			Amount:    &mint,
		}},
	}, nil
}

func (s *Service) Config(ctx context.Context, r kv.Reader) (ConfigResponse, error) {
	st, err := config.Load(ctx, r)
	if err != nil {
		return ConfigResponse{}, err
	}
	return ConfigResponse{
		AcceptedDenom: st.AcceptedDenom,
		TokenContract: st.TokenContract,
		ExchangeRate:  st.ExchangeRate,
		Admin:         st.Admin,
	}, nil
}

func (s *Service) TotalRaised(ctx context.Context, r kv.Reader) (TotalRaisedResponse, error) {
	st, err := config.Load(ctx, r)
	if err != nil {
		return TotalRaisedResponse{}, err
	}
	return TotalRaisedResponse{Amount: st.TotalRaised}, nil
}

// Deposits pagina los recibos del depositante, newest-first.
func (s *Service) Deposits(ctx context.Context, r kv.Reader, q DepositsQuery) (DepositsResponse, error) {
	depositor := strings.TrimSpace(q.Depositor)
	if depositor == "" {
		return DepositsResponse{}, apperr.Wrap(apperr.ErrInvalidInput, "depositor is required")
	}
	page, pageSize := defaultPage, defaultPageSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.PageSize != nil {
		pageSize = *q.PageSize
	}

	out := DepositsResponse{Deposits: make([]Deposit, 0)}
	list, err := appendlist.Attach[Deposit](ctx, kv.ScopeRead(r, depositsPrefix, []byte(depositor)))
	if errors.Is(err, apperr.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return DepositsResponse{}, err
	}

	for d, err := range list.Iterate(ctx, uint64(page)*uint64(pageSize), uint64(pageSize)) {
		if err != nil {
			return DepositsResponse{}, err
		}
		out.Deposits = append(out.Deposits, d)
	}
	out.Total = uint64(list.Len())
	return out, nil
}
