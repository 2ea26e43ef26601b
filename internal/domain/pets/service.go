package pets

import (
	"context"
	"errors"
	"strings"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/kv"
	"pet-market-engine/internal/storage/singleton"
)

var config = singleton.New[State]("config")

// Service tiene las operaciones del contrato Pet. No guarda estado propio:
// la config se lee del store al inicio de cada llamada y se pasa explícita.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Init guarda la config y se registra como receptor del token aceptado.
func (s *Service) Init(ctx context.Context, store kv.Store, env host.Env, in InitMsg) (host.Response, error) {
	token := host.ContractRef{
		Address:  strings.TrimSpace(in.AcceptedToken.Address),
		CodeHash: strings.TrimSpace(in.AcceptedToken.CodeHash),
	}
	if token.Address == "" || token.CodeHash == "" {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "accepted_token address and code_hash are required")
	}
	if strings.TrimSpace(in.ViewingKey) == "" {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "viewing_key is required")
	}
	if _, exists, err := config.MayLoad(ctx, store); err != nil {
		return host.Response{}, err
	} else if exists {
		return host.Response{}, apperr.Wrap(apperr.ErrInvalidInput, "contract already initialized")
	}

	admin := env.Sender
	if in.Admin != nil && strings.TrimSpace(*in.Admin) != "" {
		admin = strings.TrimSpace(*in.Admin)
	}

	st := State{
		AcceptedToken: token,
		Admin:         admin,
		ViewingKey:    in.ViewingKey,
	}
	if err := config.Save(ctx, store, st); err != nil {
		return host.Response{}, err
	}

	return host.Response{
		Effects: []host.Effect{
			{
				Kind:     host.EffectRegisterReceive,
				Target:   token,
				CodeHash: env.Contract.CodeHash,
			},
			{
				Kind:       host.EffectSetViewingKey,
				Target:     token,
				ViewingKey: in.ViewingKey,
			},
		},
	}, nil
}

// CreatePet crea la mascota del caller con id = cantidad previa + 1.
func (s *Service) CreatePet(ctx context.Context, store kv.Store, env host.Env, in CreatePetMsg) (CreatePetAnswer, error) {
	if _, err := config.Load(ctx, store); err != nil {
		return CreatePetAnswer{}, err
	}
	owner := strings.TrimSpace(env.Sender)
	if owner == "" {
		return CreatePetAnswer{}, apperr.Wrap(apperr.ErrUnauthorized, "caller identity required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CreatePetAnswer{}, apperr.Wrap(apperr.ErrInvalidInput, "name is required")
	}
	if in.TotalSaturationTime <= in.AllowedFeedTimespan {
		return CreatePetAnswer{}, apperr.Wrap(apperr.ErrInvalidInput,
			"total_saturation_time (%d) must exceed allowed_feed_timespan (%d)", in.TotalSaturationTime, in.AllowedFeedTimespan)
	}

	reg := NewRegistry(store)
	id, err := reg.NextID(ctx, owner)
	if err != nil {
		return CreatePetAnswer{}, err
	}
	p := Pet{
		ID:                  id,
		Name:                name,
		LastFed:             env.BlockTime,
		AllowedFeedTimespan: in.AllowedFeedTimespan,
		TotalSaturationTime: in.TotalSaturationTime,
		LifeState:           LifeAlive,
	}
	if err := reg.AppendPet(ctx, owner, p); err != nil {
		return CreatePetAnswer{}, err
	}
	return CreatePetAnswer{Name: p.Name, ID: p.ID}, nil
}

// Receive procesa la comida que manda el token aceptado: alimenta la mascota
// indicada en el payload, del owner que hizo la transferencia (From).
func (s *Service) Receive(ctx context.Context, store kv.Store, env host.Env, in ReceiveMsg) (FeedAnswer, error) {
	st, err := config.Load(ctx, store)
	if err != nil {
		return FeedAnswer{}, err
	}
	if env.Sender != st.AcceptedToken.Address {
		return FeedAnswer{}, apperr.Wrap(apperr.ErrUnauthorized, "receive only accepted from %s", st.AcceptedToken.Address)
	}
	if in.Amount.IsZero() {
		return FeedAnswer{}, apperr.Wrap(apperr.ErrInvalidInput, "amount must be greater than zero")
	}
	owner := strings.TrimSpace(in.From)
	if owner == "" {
		return FeedAnswer{}, apperr.Wrap(apperr.ErrInvalidInput, "from is required")
	}
	if len(in.Msg) == 0 {
		return FeedAnswer{}, apperr.Wrap(apperr.ErrInvalidInput, "receive msg is required")
	}
	var payload FeedPayload
	if err := host.DecodeMsg(in.Msg, &payload); err != nil {
		return FeedAnswer{}, err
	}
	if payload.Feed == nil {
		return FeedAnswer{}, apperr.Wrap(apperr.ErrInvalidInput, "unknown receive payload")
	}

	return s.feed(ctx, NewRegistry(store), owner, payload.Feed.PetID, env.BlockTime)
}

func (s *Service) feed(ctx context.Context, reg Registry, owner string, id, now uint64) (FeedAnswer, error) {
	p, err := reg.GetPet(ctx, owner, id)
	if err != nil {
		return FeedAnswer{}, err
	}

	fed, ferr := p.Feed(now)
	if ferr != nil {
		// La muerte recién observada se persiste aunque la llamada falle.
		if errors.Is(ferr, apperr.ErrAlreadyDead) && p.LifeState != LifeDead {
			if err := reg.UpdatePet(ctx, owner, id, fed); err != nil {
				return FeedAnswer{}, err
			}
			return FeedAnswer{}, apperr.KeepWrites(ferr)
		}
		return FeedAnswer{}, ferr
	}

	if err := reg.UpdatePet(ctx, owner, id, fed); err != nil {
		return FeedAnswer{}, err
	}
	return FeedAnswer{PetID: fed.ID, LastFed: fed.LastFed}, nil
}

// Queries

func (s *Service) LastFed(ctx context.Context, r kv.Reader, q PetQuery) (LastFedResponse, error) {
	p, err := s.getPet(ctx, r, q)
	if err != nil {
		return LastFedResponse{}, err
	}
	return LastFedResponse{Timestamp: p.LastFed}, nil
}

// Pet devuelve la mascota clasificada al block time de la query.
func (s *Service) Pet(ctx context.Context, r kv.Reader, env host.Env, q PetQuery) (PetResponse, error) {
	p, err := s.getPet(ctx, r, q)
	if err != nil {
		return PetResponse{}, err
	}
	return toPetResponse(p, env.BlockTime), nil
}

func (s *Service) Pets(ctx context.Context, r kv.Reader, env host.Env, q PetsQuery) (PetsResponse, error) {
	owner := strings.TrimSpace(q.Owner)
	if owner == "" {
		return PetsResponse{}, apperr.Wrap(apperr.ErrInvalidInput, "owner is required")
	}
	page, pageSize := defaultPage, defaultPageSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.PageSize != nil {
		pageSize = *q.PageSize
	}

	items, total, err := ReadRegistry(r).GetPets(ctx, owner, page, pageSize)
	if err != nil {
		return PetsResponse{}, err
	}
	out := make([]PetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p, env.BlockTime))
	}
	return PetsResponse{Pets: out, Total: total}, nil
}

func (s *Service) AcceptedToken(ctx context.Context, r kv.Reader) (AcceptedTokenResponse, error) {
	st, err := config.Load(ctx, r)
	if err != nil {
		return AcceptedTokenResponse{}, err
	}
	return AcceptedTokenResponse{
		Address:  st.AcceptedToken.Address,
		CodeHash: st.AcceptedToken.CodeHash,
	}, nil
}

func (s *Service) getPet(ctx context.Context, r kv.Reader, q PetQuery) (Pet, error) {
	owner := strings.TrimSpace(q.Owner)
	if owner == "" {
		return Pet{}, apperr.Wrap(apperr.ErrInvalidInput, "owner is required")
	}
	return ReadRegistry(r).GetPet(ctx, owner, q.ID)
}

func toPetResponse(p Pet, now uint64) PetResponse {
	return PetResponse{
		Pet:        p.Observe(now),
		Saturation: p.Saturation(now),
	}
}
