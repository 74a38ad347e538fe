package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

// AlertHandler procesa una alerta de stock consumida de la cola.
type AlertHandler func(ctx context.Context, alert inventory.StockAlert)

// StartAlertConsumer lanza una goroutine que consume QueueAlerts con BRPOP hasta que ctx termine.
func StartAlertConsumer(ctx context.Context, rdb *redis.Client, handle AlertHandler) {
	go func() {
		log.Info().Str("queue", QueueAlerts).Msg("consumidor de alertas iniciado")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("consumidor de alertas detenido")
				return
			default:
			}
			// Bloquea hasta 5s y vuelve a revisar ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlerts).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Error().Err(err).Msg("leer cola de alertas")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			alert, err := DecodeAlert([]byte(result[1]))
			if err != nil {
				log.Error().Err(err).Msg("alerta inválida en la cola")
				continue
			}
			handle(ctx, alert)
		}
	}()
}

// DecodeAlert extrae la alerta de un sobre Event.
func DecodeAlert(raw []byte) (inventory.StockAlert, error) {
	var (
		ev    Event
		alert inventory.StockAlert
	)
	if err := json.Unmarshal(raw, &ev); err != nil {
		return alert, err
	}
	if ev.Type != TypeStockAlert {
		return alert, errors.New("tipo de evento inesperado: " + ev.Type)
	}
	err := json.Unmarshal(ev.Payload, &alert)
	return alert, err
}

// LogAlert handler por defecto: registra la alerta para el equipo de compras.
func LogAlert(_ context.Context, a inventory.StockAlert) {
	log.Warn().
		Str("product_id", a.ProductID).
		Str("product", a.ProductName).
		Int("stock_actual", a.StockActual).
		Int("stock_minimo", a.StockMinimo).
		Msg("reposición requerida")
}
