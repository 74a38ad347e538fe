package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// Colas (listas Redis) y canal pub/sub de eventos de inventario.
const (
	QueueMovements = "events:movimientos"
	QueueAlerts    = "events:alertas-stock"
	ChannelAlerts  = "inventario:alertas"

	// Las listas se recortan para que un consumidor caído no haga crecer Redis sin límite.
	maxQueueLength = 10000
)

// Tipos de evento del sobre.
const (
	TypeMovementRecorded = "movimiento.registrado"
	TypeStockAlert       = "stock.alerta"
)

// Event sobre genérico de los eventos publicados.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// MovementRecorded payload de TypeMovementRecorded.
type MovementRecorded struct {
	MovementID      string    `json:"movimientoId"`
	Type            string    `json:"tipoMovimiento"`
	Quantity        int       `json:"cantidad"`
	ProductID       string    `json:"productoId"`
	UserID          string    `json:"usuarioId"`
	StockResultante int       `json:"stockResultante"`
	CreatedAt       time.Time `json:"fecha"`
}

var _ inventory.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher encola eventos en listas Redis (LPUSH) y difunde las alertas por PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher construye el publicador sobre un cliente ya validado.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// NewRedis crea y valida la conexión con go-redis.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (p *RedisPublisher) PublishMovementRecorded(ctx context.Context, m *entity.Movement, stockResultante int) error {
	payload := MovementRecorded{
		MovementID:      m.ID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		ProductID:       m.ProductID,
		UserID:          m.UserID,
		StockResultante: stockResultante,
		CreatedAt:       m.CreatedAt,
	}
	encoded, err := encode(TypeMovementRecorded, m.CreatedAt, payload)
	if err != nil {
		return err
	}
	return p.enqueue(ctx, QueueMovements, encoded)
}

func (p *RedisPublisher) PublishStockAlert(ctx context.Context, alert inventory.StockAlert) error {
	encoded, err := encode(TypeStockAlert, alert.OccurredAt, alert)
	if err != nil {
		return err
	}
	if err := p.enqueue(ctx, QueueAlerts, encoded); err != nil {
		return err
	}
	return p.rdb.Publish(ctx, ChannelAlerts, encoded).Err()
}

func (p *RedisPublisher) enqueue(ctx context.Context, queue string, encoded []byte) error {
	pipe := p.rdb.TxPipeline()
	pipe.LPush(ctx, queue, encoded)
	pipe.LTrim(ctx, queue, 0, maxQueueLength-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis enqueue %s: %w", queue, err)
	}
	return nil
}

func encode(eventType string, at time.Time, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", eventType, err)
	}
	return json.Marshal(Event{Type: eventType, OccurredAt: at, Payload: data})
}

// LogPublisher alternativa sin Redis: los eventos solo quedan en el log.
type LogPublisher struct{}

var _ inventory.EventPublisher = LogPublisher{}

func (LogPublisher) PublishMovementRecorded(_ context.Context, m *entity.Movement, stockResultante int) error {
	log.Info().
		Str("event", TypeMovementRecorded).
		Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Int("stock_resultante", stockResultante).
		Msg("evento")
	return nil
}

func (LogPublisher) PublishStockAlert(_ context.Context, a inventory.StockAlert) error {
	log.Warn().
		Str("event", TypeStockAlert).
		Str("product_id", a.ProductID).
		Int("stock_actual", a.StockActual).
		Int("stock_minimo", a.StockMinimo).
		Msg("evento")
	return nil
}
