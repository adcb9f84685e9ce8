package breaker

import (
	"time"

	"pet-adoption/internal/platform/logger"

	"github.com/sony/gobreaker"
)

// New crea un circuit breaker con los defaults del servicio.
// Abre tras 3 fallos consecutivos; timeout según dependencia.
func New(name string, log logger.Logger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = logger.Nop()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeoutFor(name),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}

// timeoutFor es cuánto queda abierto el breaker antes de probar de nuevo.
func timeoutFor(name string) time.Duration {
	switch name {
	case "identity":
		return 5 * time.Second
	case "blob-minio", "blob-s3":
		return 10 * time.Second
	default:
		return 30 * time.Second
	}
}
