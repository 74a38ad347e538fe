package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// RegisterMovementUseCase es la única autoridad que crea movimientos y mantiene
// products.stock_actual. Cada movimiento es una transacción con bloqueo de fila
// (SELECT FOR UPDATE) sobre el producto: lectura, validación de suficiencia,
// escritura del saldo e inserción en el libro ocurren bajo el mismo lock.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	userRepo  repository.UserRepository
	publisher EventPublisher
	cache     ReadCache
	limits    Limits
	now       func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. publisher y cache pueden ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	cache ReadCache,
	limits Limits,
) *RegisterMovementUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		userRepo:  userRepo,
		publisher: publisher,
		cache:     cache,
		limits:    limits,
		now:       time.Now,
	}
}

// MovementInput entrada del motor. Type solo se usa en CreateMovement.
type MovementInput struct {
	ProductID string
	UserID    string
	Type      string
	Quantity  int
	Reason    string
}

// MovementResult movimiento confirmado junto con el producto ya actualizado.
type MovementResult struct {
	Movement      *entity.Movement
	Product       *entity.Product
	PreviousStock int
	LowStockAlert bool
}

// CreateEntry registra una ENTRADA: stock_actual += cantidad.
func (uc *RegisterMovementUseCase) CreateEntry(ctx context.Context, in MovementInput) (*MovementResult, error) {
	in.Type = entity.MovementTypeEntrada
	return uc.register(ctx, in)
}

// CreateExit registra una SALIDA: exige stock_actual >= cantidad sobre la fila bloqueada.
func (uc *RegisterMovementUseCase) CreateExit(ctx context.Context, in MovementInput) (*MovementResult, error) {
	in.Type = entity.MovementTypeSalida
	return uc.register(ctx, in)
}

// CreateMovement despacha a CreateEntry o CreateExit según in.Type.
func (uc *RegisterMovementUseCase) CreateMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	switch in.Type {
	case entity.MovementTypeEntrada:
		return uc.CreateEntry(ctx, in)
	case entity.MovementTypeSalida:
		return uc.CreateExit(ctx, in)
	}
	return nil, &domain.Error{
		Kind:    domain.KindInvalidArgument,
		Code:    "INVALID_MOVEMENT_TYPE",
		Message: "tipo de movimiento inválido: debe ser ENTRADA o SALIDA",
		Fields:  map[string]string{"tipoMovimiento": "oneof=ENTRADA SALIDA"},
	}
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, in MovementInput) (*MovementResult, error) {
	// Validación completa antes de cualquier escritura
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	if uc.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.limits.Timeout)
		defer cancel()
	}

	user, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, translateTxError(err)
	}
	if user == nil {
		return nil, domain.NotFound("USER_NOT_FOUND", "usuario no encontrado")
	}
	if !user.Active {
		return nil, &domain.Error{Kind: domain.KindForbidden, Code: "USER_INACTIVE", Message: "el usuario está desactivado"}
	}

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		res, err := uc.applyInTx(ctx, movRepo, productRepo, in)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	uc.AfterCommit(ctx, result)
	return result, nil
}

// RegisterInitialStockInTx registra la ENTRADA de stock inicial de un producto recién
// creado usando los repositorios de la transacción del caller (creación de producto).
// El caller debe invocar AfterCommit cuando su transacción confirme.
func (uc *RegisterMovementUseCase) RegisterInitialStockInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	productID, userID string,
	quantity int,
) (*MovementResult, error) {
	in := MovementInput{
		ProductID: productID,
		UserID:    userID,
		Type:      entity.MovementTypeEntrada,
		Quantity:  quantity,
		Reason:    "Stock inicial",
	}
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	return uc.applyInTx(ctx, movRepo, productRepo, in)
}

// applyInTx bloquea la fila del producto, calcula el nuevo saldo, inserta el movimiento
// y escribe el saldo. Debe ejecutarse dentro de una transacción.
func (uc *RegisterMovementUseCase) applyInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
) (*MovementResult, error) {
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("PRODUCT_NOT_FOUND", "producto no encontrado")
	}

	previous := product.StockActual
	next := previous + in.Quantity
	if in.Type == entity.MovementTypeSalida {
		// Verifica StockActual >= CantidadSolicitada sobre el valor bloqueado
		if in.Quantity > previous {
			return nil, domain.InsufficientStock(previous, in.Quantity)
		}
		next = previous - in.Quantity
	}

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ProductID: product.ID,
		UserID:    in.UserID,
		CreatedAt: uc.now(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}
	product.StockActual = next
	product.UpdatedAt = mov.CreatedAt

	return &MovementResult{
		Movement:      mov,
		Product:       product,
		PreviousStock: previous,
		LowStockAlert: in.Type == entity.MovementTypeSalida && stock.NeedsAlert(next, product.StockMinimo),
	}, nil
}

// AfterCommit invalida la caché de lecturas y publica los eventos del movimiento.
func (uc *RegisterMovementUseCase) AfterCommit(ctx context.Context, res *MovementResult) {
	if res == nil {
		return
	}
	uc.cache.Clear()

	mov, product := res.Movement, res.Product
	log.Debug().
		Str("movement_id", mov.ID).
		Str("type", mov.Type).
		Str("product_id", product.ID).
		Int("quantity", mov.Quantity).
		Int("stock_anterior", res.PreviousStock).
		Int("stock_actual", product.StockActual).
		Msg("movimiento registrado")

	// Los eventos no dependen del deadline de la transacción ya confirmada, pero tienen el suyo:
	// un broker lento no debe retrasar la respuesta del movimiento.
	pubCtx := context.WithoutCancel(ctx)
	if uc.limits.PublishTimeout > 0 {
		var cancel context.CancelFunc
		pubCtx, cancel = context.WithTimeout(pubCtx, uc.limits.PublishTimeout)
		defer cancel()
	}
	if err := uc.publisher.PublishMovementRecorded(pubCtx, mov, product.StockActual); err != nil {
		log.Error().Err(err).Str("movement_id", mov.ID).Msg("publicar movimiento")
	}
	if !res.LowStockAlert {
		return
	}
	log.Warn().
		Str("product_id", product.ID).
		Str("product", product.Name).
		Int("stock_actual", product.StockActual).
		Int("stock_minimo", product.StockMinimo).
		Msg("alerta: stock en nivel crítico")
	alert := StockAlert{
		ProductID:   product.ID,
		ProductName: product.Name,
		StockActual: product.StockActual,
		StockMinimo: product.StockMinimo,
		MovementID:  mov.ID,
		OccurredAt:  mov.CreatedAt,
	}
	if err := uc.publisher.PublishStockAlert(pubCtx, alert); err != nil {
		log.Error().Err(err).Str("product_id", product.ID).Msg("publicar alerta de stock")
	}
}

func (uc *RegisterMovementUseCase) validate(in MovementInput) error {
	fields := make(map[string]string)
	if in.ProductID == "" {
		fields["productoId"] = "required"
	} else if _, err := uuid.Parse(in.ProductID); err != nil {
		fields["productoId"] = "uuid"
	}
	if in.UserID == "" {
		fields["usuarioId"] = "required"
	} else if _, err := uuid.Parse(in.UserID); err != nil {
		fields["usuarioId"] = "uuid"
	}
	if in.Quantity < uc.limits.MinQuantity {
		fields["cantidad"] = "min=" + strconv.Itoa(uc.limits.MinQuantity)
	} else if in.Quantity > uc.limits.MaxQuantity {
		fields["cantidad"] = "max=" + strconv.Itoa(uc.limits.MaxQuantity)
	}
	if utf8.RuneCountInString(in.Reason) > uc.limits.MaxReasonLength {
		fields["motivo"] = "max=" + strconv.Itoa(uc.limits.MaxReasonLength)
	}
	if len(fields) > 0 {
		return domain.InvalidFields(fields)
	}
	return nil
}

// translateTxError deja pasar los errores de dominio y envuelve el resto como Internal.
func translateTxError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Internal("MOVEMENT_TIMEOUT", err)
	}
	return domain.Internal("MOVEMENT_FAILED", err)
}
