package models

// ErrorResponse - стандартная структура ответа об ошибке.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
