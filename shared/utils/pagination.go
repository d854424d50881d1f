package utils

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const cursorSeparator = "_"

// EncodeCursor кодирует пару (время, ID) в непрозрачный base64 курсор.
func EncodeCursor(t time.Time, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	data := fmt.Sprintf("%d%s%s", t.UnixNano(), cursorSeparator, id.String())
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeCursor разбирает курсор, созданный EncodeCursor.
// Пустой курсор валиден и означает начало списка.
func DecodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor base64 format: %w", err)
	}
	parts := strings.SplitN(string(decoded), cursorSeparator, 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format, expected 2 parts, got %d", len(parts))
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor timestamp format: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor uuid format: %w", err)
	}
	return time.Unix(0, nanos).UTC(), id, nil
}
