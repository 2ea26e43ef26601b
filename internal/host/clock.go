package host

import (
	"sync"
	"time"
)

// Clock entrega el block time de cada llamada. Nunca retrocede: un tiempo
// pedido anterior al último bloque commiteado se eleva a ese bloque.
// El executor persiste el piso con cada commit y lo restaura con Floor.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last uint64
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// At resuelve el block time de una llamada. requested nil = reloj del host.
// No mueve el piso: eso lo hace Floor cuando la llamada se commitea.
func (c *Clock) At(requested *uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.pick(requested)
	if t < c.last {
		return c.last
	}
	return t
}

// Floor sube el piso a t; valores menores se ignoran.
func (c *Clock) Floor(t uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.last {
		c.last = t
	}
}

// Last es el piso actual.
func (c *Clock) Last() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Clock) pick(requested *uint64) uint64 {
	if requested != nil {
		return *requested
	}
	sec := c.now().Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}
