package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyops/psa_backend/internal/utils/pagination"
)

func TestEncodeDecodeToken(t *testing.T) {
	recordDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 14, 9, 30, 15, 123456789, time.UTC)

	token := pagination.EncodeToken(recordDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, recordDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("bm90LWEtdG9rZW4=") // "not-a-token"
	assert.Error(t, err)
}

func TestMultiFieldToken_RoundTrip(t *testing.T) {
	fields := []string{"2025-03-14T00:00:00Z", "deal-123", "NEGOTIATION"}
	token := pagination.EncodeMultiFieldToken(fields...)

	got, err := pagination.DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}
