package handler

import (
	"net/http"
	"strconv"

	"outfit-server/shared/middleware"
	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StylistHandler обслуживает HTTP API ассистента-стилиста.
type StylistHandler struct {
	guided   service.GuidedLookService
	credits  service.CreditService
	closet   service.ClosetService
	verifier middleware.TokenVerifier
	logger   *zap.Logger
}

// NewStylistHandler создает обработчик. verifier проверяет JWT пользователя.
func NewStylistHandler(
	guided service.GuidedLookService,
	credits service.CreditService,
	closet service.ClosetService,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) *StylistHandler {
	return &StylistHandler{
		guided:   guided,
		credits:  credits,
		closet:   closet,
		verifier: verifier,
		logger:   logger.Named("StylistHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API. Все маршруты требуют JWT.
func (h *StylistHandler) RegisterRoutes(router gin.IRouter) {
	authed := router.Group("", middleware.GinAuthMiddleware(h.verifier, h.logger))
	{
		authed.POST("/assistant/chat", h.chat)
		authed.GET("/credits", h.getBalance)
		authed.POST("/credits/grant", middleware.RequireRole(models.RoleAdmin), h.grantCredits)
		authed.GET("/closet", h.listCloset)
	}
}

// @Summary Ход сессии пошагового создания образа
// @Description Принимает сообщение и действие сценария, возвращает ответ ассистента и новое состояние сессии
// @Tags assistant
// @Accept json
// @Produce json
// @Param Accept-Language header string false "Локаль ответа, если в теле нет locale"
// @Param request body ChatRequest true "Сообщение и управляющая часть хода"
// @Success 200 {object} service.ChatResponse "Ответ ассистента"
// @Failure 400 {object} models.ErrorResponse "Невалидный запрос или неизвестное действие"
// @Failure 401 {object} models.ErrorResponse "Неавторизован"
// @Failure 409 {object} models.ErrorResponse "Предыдущий ход сессии еще выполняется"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка"
// @Security BearerAuth
// @Router /assistant/chat [post]
func (h *StylistHandler) chat(c *gin.Context) {
	userID, ok := models.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Unauthorized"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid chat request", zap.String("userID", userID.String()), zap.Error(err))
		validationError(c, err)
		return
	}

	resp, err := h.guided.HandleTurn(
		c.Request.Context(),
		userID,
		models.GetTierFromContext(c.Request.Context()),
		req.toTurnRequest(c.GetHeader("Accept-Language")),
	)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Баланс кредитов
// @Tags credits
// @Produce json
// @Success 200 {object} service.BalanceResponse "Текущий баланс"
// @Failure 401 {object} models.ErrorResponse "Неавторизован"
// @Security BearerAuth
// @Router /credits [get]
func (h *StylistHandler) getBalance(c *gin.Context) {
	userID, _ := models.GetUserIDFromContext(c.Request.Context())
	balance, err := h.credits.Balance(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, service.BalanceResponse{Balance: balance})
}

// @Summary Начисление кредитов пользователю
// @Description Доступно только администратору
// @Tags credits
// @Accept json
// @Produce json
// @Param request body GrantCreditsRequest true "Пользователь, сумма и причина"
// @Success 200 {object} service.BalanceResponse "Новый баланс"
// @Failure 400 {object} models.ErrorResponse "Невалидный запрос"
// @Failure 401 {object} models.ErrorResponse "Неавторизован"
// @Failure 403 {object} models.ErrorResponse "Нет роли admin"
// @Security BearerAuth
// @Router /credits/grant [post]
func (h *StylistHandler) grantCredits(c *gin.Context) {
	var req GrantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	balance, err := h.credits.Grant(c.Request.Context(), req.UserID, req.Amount, req.Reason)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, service.BalanceResponse{Balance: balance})
}

// @Summary Вещи гардероба
// @Description Постраничный список, новые вещи первыми
// @Tags closet
// @Produce json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param cursor query string false "Курсор из nextCursor предыдущей страницы"
// @Success 200 {object} service.ClosetPage "Страница гардероба"
// @Failure 400 {object} models.ErrorResponse "Невалидный limit или курсор"
// @Failure 401 {object} models.ErrorResponse "Неавторизован"
// @Security BearerAuth
// @Router /closet [get]
func (h *StylistHandler) listCloset(c *gin.Context) {
	userID, _ := models.GetUserIDFromContext(c.Request.Context())

	// limit=0 означает размер страницы по умолчанию
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	page, err := h.closet.ListItems(c.Request.Context(), userID, c.Query("cursor"), limit)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, page)
}
