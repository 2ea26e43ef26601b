package pets

import (
	"context"
	"errors"

	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/storage/appendlist"
	"pet-market-engine/internal/storage/kv"
	"pet-market-engine/internal/storage/singleton"
)

var (
	petsPrefix  = []byte("pets")
	countPrefix = []byte("pets_count")

	petsCount = singleton.New[uint64]("count")
)

// Registry parte las mascotas en una lista append-only por owner:
// pets/<owner>/... y su contador en pets_count/<owner>.
type Registry struct {
	r kv.Reader
	w kv.Store // nil => solo lectura (queries)
}

func NewRegistry(s kv.Store) Registry {
	return Registry{r: s, w: s}
}

func ReadRegistry(r kv.Reader) Registry {
	return Registry{r: r}
}

// NextID es previous_count + 1; el primer pet de cada owner es el 1.
func (g Registry) NextID(ctx context.Context, owner string) (uint64, error) {
	n, _, err := petsCount.MayLoad(ctx, kv.ScopeRead(g.r, countPrefix, []byte(owner)))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// AppendPet agrega al final de la lista del owner y deja el contador igual al largo.
func (g Registry) AppendPet(ctx context.Context, owner string, p Pet) error {
	if g.w == nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "registry opened read-only")
	}
	list, err := appendlist.AttachOrCreate[Pet](ctx, g.ownerStore(owner))
	if err != nil {
		return err
	}
	if err := list.Push(ctx, p); err != nil {
		return err
	}
	return petsCount.Save(ctx, kv.Scope(g.w, countPrefix, []byte(owner)), uint64(list.Len()))
}

// GetPet busca newest-first. NotFound si no existe el id o el owner no tiene lista.
func (g Registry) GetPet(ctx context.Context, owner string, id uint64) (Pet, error) {
	list, err := appendlist.Attach[Pet](ctx, g.ownerReader(owner))
	if err != nil {
		return Pet{}, notFound(err, id, owner)
	}
	p, err := list.Find(ctx, byID(id))
	if err != nil {
		return Pet{}, notFound(err, id, owner)
	}
	return p, nil
}

// GetPets devuelve la página newest-first y el total del owner.
// Sin lista devuelve ([], 0); una página fuera de rango viene vacía.
func (g Registry) GetPets(ctx context.Context, owner string, page, pageSize uint32) ([]Pet, uint64, error) {
	out := make([]Pet, 0)
	list, err := appendlist.Attach[Pet](ctx, g.ownerReader(owner))
	if errors.Is(err, apperr.ErrNotFound) {
		return out, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	// u32*u32 entra en u64
	skip := uint64(page) * uint64(pageSize)
	for p, err := range list.Iterate(ctx, skip, uint64(pageSize)) {
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, uint64(list.Len()), nil
}

// UpdatePet pisa el registro con ese id. La posición no sale de acá.
func (g Registry) UpdatePet(ctx context.Context, owner string, id uint64, p Pet) error {
	if g.w == nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "registry opened read-only")
	}
	list, err := appendlist.AttachMut[Pet](ctx, g.ownerStore(owner))
	if err != nil {
		return notFound(err, id, owner)
	}
	if err := list.Replace(ctx, byID(id), p); err != nil {
		return notFound(err, id, owner)
	}
	return nil
}

func (g Registry) ownerStore(owner string) kv.Store {
	return kv.Scope(g.w, petsPrefix, []byte(owner))
}

func (g Registry) ownerReader(owner string) kv.Reader {
	return kv.ScopeRead(g.r, petsPrefix, []byte(owner))
}

// notFound deja pasar errores de storage/serialización tal cual.
func notFound(err error, id uint64, owner string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Wrap(apperr.ErrNotFound, "pet %d of %s", id, owner)
	}
	return err
}

func byID(id uint64) func(Pet) bool {
	return func(p Pet) bool { return p.ID == id }
}
