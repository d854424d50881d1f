package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет стандартные поля JWT и пользовательские данные токена.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
	// Tier - тарифный план пользователя (free, pro). Влияет на квоту гардероба.
	Tier string `json:"tier,omitempty"`
	jwt.RegisteredClaims
}
