package utils

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 5, 4, 3, 2, 1, 123456789, time.UTC)
	id := uuid.New()

	cursor := EncodeCursor(ts, id)
	require.NotEmpty(t, cursor)

	gotTime, gotID, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	ts, id, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.True(t, ts.IsZero())
	assert.Equal(t, uuid.Nil, id)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, cursor := range []string{
		"%%%",
		base64.URLEncoding.EncodeToString([]byte("no-separator")),
		base64.URLEncoding.EncodeToString([]byte("abc_" + uuid.NewString())),
		base64.URLEncoding.EncodeToString([]byte("123_not-a-uuid")),
	} {
		_, _, err := DecodeCursor(cursor)
		assert.Error(t, err, cursor)
	}
}

func TestEncodeCursor_NilID(t *testing.T) {
	assert.Empty(t, EncodeCursor(time.Now(), uuid.Nil))
}
