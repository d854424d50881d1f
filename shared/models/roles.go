package models

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Тарифы пользователей
const (
	TierFree = "free"
	TierPro  = "pro"
)

// HasRole проверяет, есть ли у пользователя указанная роль.
func HasRole(userRoles []string, targetRole string) bool {
	for _, role := range userRoles {
		if role == targetRole {
			return true
		}
	}
	return false
}
