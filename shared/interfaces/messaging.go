package interfaces

import "context"

// Publisher публикует JSON-сообщение в очередь.
type Publisher interface {
	Publish(ctx context.Context, payload interface{}, correlationID string) error
}
