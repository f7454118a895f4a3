package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jhoicas/cep-backoffice/internal/application/dto"
)

// NewRateLimiter instancia con store en memoria a partir de un rate formateado ("30-M", "5-S").
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limita por IP y ruta. Si el store falla deja pasar la petición.
func RateLimit(instance *limiter.Limiter, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lctx, err := instance.Get(c.UserContext(), c.IP()+"|"+c.Path())
		if err != nil {
			log.Error().Err(err).Msg("rate limiter")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		if lctx.Reached {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
