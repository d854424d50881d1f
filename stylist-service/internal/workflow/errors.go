package workflow

import (
	"errors"

	"outfit-server/shared/models"
)

var (
	// ErrUnknownAction - действие не входит в список поддерживаемых.
	ErrUnknownAction = errors.New("unknown workflow action")

	// Ошибки генератора. Адаптеры должны оборачивать свои ошибки в одну из них.
	ErrGenerationTimeout   = errors.New("generation timed out")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrInsufficientCredits = models.ErrInsufficientCredits
)
