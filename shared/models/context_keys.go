package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// UserContextKey - ключ для UserID в контексте запроса.
	UserContextKey contextKey = "userID"
	// RolesContextKey - ключ для []string ролей пользователя.
	RolesContextKey contextKey = "userRoles"
	// TierContextKey - ключ для тарифа пользователя.
	TierContextKey contextKey = "userTier"
)

// GetUserIDFromContext извлекает UserID из контекста.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// GetRolesFromContext извлекает срез ролей из контекста.
func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(RolesContextKey).([]string)
	return roles, ok
}

// GetTierFromContext извлекает тариф пользователя. Без значения возвращает TierFree.
func GetTierFromContext(ctx context.Context) string {
	tier, ok := ctx.Value(TierContextKey).(string)
	if !ok || tier == "" {
		return TierFree
	}
	return tier
}
