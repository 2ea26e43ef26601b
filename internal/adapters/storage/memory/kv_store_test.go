package memory

import (
	"testing"

	"pet-market-engine/internal/storage/kv"
	"pet-market-engine/internal/storage/kv/kvtest"
)

func TestStore(t *testing.T) {
	kvtest.Run(t, func(*testing.T) kv.Store { return NewStore() })
}
