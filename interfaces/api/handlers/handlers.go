package handlers

import (
	"gorm.io/gorm"

	"agenda-api/domain/services"
	"agenda-api/infrastructure/redis"
)

// Services contains all the services needed for handlers
type Services struct {
	PersonaService services.PersonaService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Persona *PersonaHandler
	Health  *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services, db *gorm.DB, redisClient *redis.RedisClient) *Handlers {
	return &Handlers{
		Persona: NewPersonaHandler(services.PersonaService),
		Health:  NewHealthHandler(db, redisClient),
	}
}
