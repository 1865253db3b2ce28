package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpKeys(t *testing.T) {
	store := NewOpKeys()

	store.Set(100, "op-1", time.Minute)
	assert.Equal(t, "op-1", store.Get(100))
	assert.Equal(t, "", store.Get(999))

	store.Set(200, "op-2", -time.Second)
	assert.Equal(t, "", store.Get(200), "expired entries are evicted")

	store.Set(100, "op-1b", time.Minute)
	assert.Equal(t, "op-1b", store.Get(100), "latest value wins")
}
