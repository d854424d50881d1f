package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/service"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockGuidedLook struct{ mock.Mock }

func (m *mockGuidedLook) HandleTurn(ctx context.Context, userID uuid.UUID, tier string, req service.TurnRequest) (*service.ChatResponse, error) {
	args := m.Called(ctx, userID, tier, req)
	resp, _ := args.Get(0).(*service.ChatResponse)
	return resp, args.Error(1)
}

type mockCredits struct{ mock.Mock }

func (m *mockCredits) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockCredits) Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	args := m.Called(ctx, userID, amount, reason)
	return args.Int(0), args.Error(1)
}

type mockCloset struct{ mock.Mock }

func (m *mockCloset) ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*service.ClosetPage, error) {
	args := m.Called(ctx, userID, cursor, limit)
	page, _ := args.Get(0).(*service.ClosetPage)
	return page, args.Error(1)
}

type testEnv struct {
	router  *gin.Engine
	guided  *mockGuidedLook
	credits *mockCredits
	closet  *mockCloset
	userID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		guided:  &mockGuidedLook{},
		credits: &mockCredits{},
		closet:  &mockCloset{},
		userID:  uuid.New(),
	}
	env.guided.Test(t)
	env.credits.Test(t)
	env.closet.Test(t)

	verifier := func(_ context.Context, token string) (*models.Claims, error) {
		switch token {
		case "user-token":
			return &models.Claims{UserID: env.userID, Roles: []string{models.RoleUser}, Tier: models.TierPro}, nil
		case "admin-token":
			return &models.Claims{UserID: env.userID, Roles: []string{models.RoleAdmin}}, nil
		}
		return nil, models.ErrTokenInvalid
	}

	env.router = gin.New()
	NewStylistHandler(env.guided, env.credits, env.closet, verifier, zap.NewNop()).RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestChat_Success(t *testing.T) {
	env := newTestEnv(t)
	enabled := true

	expectedReq := service.TurnRequest{
		Message:   "oficina",
		SessionID: "s-1",
		Action:    workflow.ActionSubmit,
		Locale:    "en-US,en;q=0.9",
		Payload:   workflow.Payload{Category: "top", AutosaveEnabled: &enabled},
	}
	env.guided.On("HandleTurn", mock.Anything, env.userID, models.TierPro, expectedReq).
		Return(&service.ChatResponse{
			Role:    service.RoleAssistant,
			Content: "What style?",
			Workflow: service.WorkflowState{
				Mode:          models.WorkflowModeGuidedLook,
				SessionID:     "s-1",
				Status:        models.WorkflowStatusCollecting,
				MissingFields: []models.Slot{models.SlotStyle},
			},
		}, nil).Once()

	w := env.do(http.MethodPost, "/assistant/chat", "user-token", gin.H{
		"message": "oficina",
		"workflow": gin.H{
			"mode":      "guided_look_creation",
			"sessionId": "s-1",
			"action":    "submit",
			"payload":   gin.H{"category": "top", "autosaveEnabled": true},
		},
	}, "Accept-Language", "en-US,en;q=0.9")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp service.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "assistant", resp.Role)
	assert.Equal(t, "s-1", resp.Workflow.SessionID)
	env.guided.AssertExpectations(t)
}

func TestChat_BodyLocaleWins(t *testing.T) {
	env := newTestEnv(t)
	env.guided.On("HandleTurn", mock.Anything, env.userID, models.TierPro, mock.MatchedBy(func(req service.TurnRequest) bool {
		return req.Locale == "es" && req.Action == workflow.ActionStart
	})).Return(&service.ChatResponse{Role: service.RoleAssistant}, nil).Once()

	w := env.do(http.MethodPost, "/assistant/chat", "user-token", gin.H{
		"locale":   "es",
		"workflow": gin.H{"mode": "guided_look_creation", "action": "start"},
	}, "Accept-Language", "en")

	assert.Equal(t, http.StatusOK, w.Code)
	env.guided.AssertExpectations(t)
}

func TestChat_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]gin.H{
		"missing mode":     {"workflow": gin.H{"action": "start"}},
		"wrong mode":       {"workflow": gin.H{"mode": "free_chat", "action": "start"}},
		"unknown action":   {"workflow": gin.H{"mode": "guided_look_creation", "action": "dance"}},
		"unknown category": {"workflow": gin.H{"mode": "guided_look_creation", "payload": gin.H{"category": "hat"}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/assistant/chat", "user-token", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, models.ErrCodeValidation, decodeError(t, w).Code)
		})
	}
	env.guided.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChat_ServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"unknown action", workflow.ErrUnknownAction, http.StatusBadRequest, models.ErrCodeUnknownAction},
		{"session busy", fmt.Errorf("%w: session s-1 is being processed", models.ErrConflict), http.StatusConflict, models.ErrCodeConflict},
		{"internal", errors.New("redis down"), http.StatusInternalServerError, models.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.guided.On("HandleTurn", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := env.do(http.MethodPost, "/assistant/chat", "user-token", gin.H{
				"workflow": gin.H{"mode": "guided_look_creation", "sessionId": "s-1"},
			})
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestChat_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/assistant/chat", "", gin.H{"workflow": gin.H{"mode": "guided_look_creation"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/assistant/chat", "bogus", gin.H{"workflow": gin.H{"mode": "guided_look_creation"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCredits(t *testing.T) {
	env := newTestEnv(t)
	env.credits.On("Balance", mock.Anything, env.userID).Return(8, nil).Once()

	w := env.do(http.MethodGet, "/credits", "user-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":8}`, w.Body.String())
}

func TestGrantCredits_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	target := uuid.New()
	env.credits.On("Grant", mock.Anything, target, 10, "promo").Return(15, nil).Once()

	body := gin.H{"userId": target.String(), "amount": 10, "reason": "promo"}

	w := env.do(http.MethodPost, "/credits/grant", "user-token", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/credits/grant", "admin-token", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"balance":15}`, w.Body.String())

	w = env.do(http.MethodPost, "/credits/grant", "admin-token", gin.H{"userId": target.String(), "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.credits.AssertExpectations(t)
}

func TestListCloset(t *testing.T) {
	env := newTestEnv(t)
	itemID := uuid.New()
	env.closet.On("ListItems", mock.Anything, env.userID, "abc", 5).
		Return(&service.ClosetPage{Items: []models.ClothingItem{{ID: itemID}}, NextCursor: "def"}, nil).Once()
	env.closet.On("ListItems", mock.Anything, env.userID, "broken", 0).
		Return(nil, models.ErrInvalidInput).Once()

	w := env.do(http.MethodGet, "/closet?cursor=abc&limit=5", "user-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page service.ClosetPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, itemID, page.Items[0].ID)
	assert.Equal(t, "def", page.NextCursor)

	w = env.do(http.MethodGet, "/closet?cursor=broken", "user-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/closet?limit=-1", "user-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.closet.AssertExpectations(t)
}
