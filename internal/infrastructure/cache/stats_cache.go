package cache

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

var _ inventory.ReadCache = (*StatsCache)(nil)

// StatsCache caché local en memoria para estadísticas y rankings de movimientos.
// Cada entrada vive como máximo ttl; el motor la vacía completa tras cada movimiento confirmado.
// La caché es por instancia: con varias réplicas cada una invalida solo sus propias
// entradas y el TTL acota cuánto tarda en verse un movimiento de otra réplica.
type StatsCache struct {
	local *ccache.Cache[any]
	ttl   time.Duration

	// mu ordena Set frente a Clear: un Set con generación vieja nunca sobrevive a un Clear.
	mu  sync.RWMutex
	gen uint64
}

// NewStatsCache crea la caché con un máximo de maxSize entradas.
func NewStatsCache(maxSize int64, ttl time.Duration) *StatsCache {
	return &StatsCache{
		local: ccache.New(ccache.Configure[any]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

// Get devuelve el valor si existe y no expiró.
func (c *StatsCache) Get(key string) (any, bool) {
	item := c.local.Get(key)
	if item == nil || item.Expired() {
		return nil, false
	}
	log.Trace().Str("key", key).Msg("cache hit")
	return item.Value(), true
}

// Generation devuelve la generación actual; avanza con cada Clear.
func (c *StatsCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Set guarda el valor con el TTL configurado si no hubo un Clear desde generation.
func (c *StatsCache) Set(key string, value any, generation uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if generation != c.gen {
		log.Trace().Str("key", key).Msg("cache set descartado: generación vencida")
		return
	}
	c.local.Set(key, value, c.ttl)
}

// Clear invalida todas las entradas y avanza la generación.
func (c *StatsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.local.Clear()
}

// Stop detiene la goroutine de mantenimiento de ccache.
func (c *StatsCache) Stop() {
	c.local.Stop()
}
