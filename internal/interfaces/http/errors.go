package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

// statusFor traduce el Kind del error de dominio a código HTTP.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInsufficientStock, domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError escribe el cuerpo de error estándar. Los errores internos nunca exponen su causa.
func writeError(c *fiber.Ctx, err error) error {
	var (
		de *domain.Error
		fe *fiber.Error
	)
	body := dto.ErrorResponse{Timestamp: time.Now().UTC()}
	switch {
	case errors.As(err, &de):
		body.Status = statusFor(de.Kind)
		body.Code = de.Code
		body.Message = de.Message
		body.Fields = de.Fields
		if body.Code == "" {
			body.Code = de.Kind.String()
		}
	case errors.As(err, &fe):
		body.Status = fe.Code
		body.Code = "HTTP_" + strconv.Itoa(fe.Code)
		body.Message = fe.Message
	default:
		body.Status = fiber.StatusInternalServerError
		body.Code = "INTERNAL"
	}
	if body.Status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		body.Message = "error interno del servidor"
	}
	body.Error = statusText(body.Status)
	return c.Status(body.Status).JSON(body)
}

// ErrorHandler se instala en fiber.Config para que los errores devueltos por handlers
// y middlewares (incluido recover) usen el mismo formato.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func statusText(status int) string {
	if s := utils.StatusMessage(status); s != "" {
		return s
	}
	return "Error"
}
