package clients

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"

	"outfit-server/stylist-service/internal/workflow"
)

const quotaErrorCode = "insufficient_quota"

// httpStatusError - ответ провайдера с неуспешным HTTP статусом.
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// translateError приводит ошибку провайдера к одной из ошибок workflow.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrGenerationTimeout) ||
		errors.Is(err, workflow.ErrGenerationFailed) ||
		errors.Is(err, workflow.ErrInsufficientCredits) {
		return err
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", workflow.ErrGenerationTimeout, err)
	}
	switch statusCode(err) {
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", workflow.ErrInsufficientCredits, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %v", workflow.ErrGenerationTimeout, err)
	}
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Type == quotaErrorCode {
			return fmt.Errorf("%w: %v", workflow.ErrInsufficientCredits, err)
		}
		if code, ok := apiErr.Code.(string); ok && code == quotaErrorCode {
			return fmt.Errorf("%w: %v", workflow.ErrInsufficientCredits, err)
		}
	}
	return fmt.Errorf("%w: %v", workflow.ErrGenerationFailed, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, workflow.ErrGenerationTimeout) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "deadline exceeded")
}

func statusCode(err error) int {
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openaigo.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return ollamaErr.StatusCode
	}
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
