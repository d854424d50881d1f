package clients

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter лениво загружает кодировку модели и считает токены промпта.
// Если кодировка для модели недоступна, счет отключается.
type tokenCounter struct {
	model string
	once  sync.Once
	enc   *tiktoken.Tiktoken
}

func newTokenCounter(model string) *tokenCounter {
	return &tokenCounter{model: model}
}

// Count возвращает число токенов или 0, если кодировка недоступна.
func (c *tokenCounter) Count(texts ...string) int {
	c.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(c.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		}
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return 0
	}
	total := 0
	for _, t := range texts {
		total += len(c.enc.Encode(t, nil, nil))
	}
	return total
}
