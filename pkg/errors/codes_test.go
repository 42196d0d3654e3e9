package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "TOKEN_002", CodeTokenInvalid.String())
	assert.Equal(t, "UNAVAIL_001", CodeUnavailable.String())
}

func TestCode_Category(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code Code
		want string
	}{
		{CodeNoToken, "TOKEN"},
		{CodeTokenExpired, "TOKEN"},
		{CodeKeyFetch, "KEY"},
		{CodeUnauthorized, "AUTH"},
		{CodeHTTP, "HTTP"},
		{CodeValidation, "VAL"},
		{CodeNotFound, "NF"},
		{CodeConflict, "CONF"},
		{CodeConfiguration, "INT"},
		{CodeInternalCache, "INT"},
		{CodeUnavailable, "UNAVAIL"},
		{CodeTimeout, "TIMEOUT"},
		{Code("NOPREFIX"), "NOPREFIX"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.code.Category())
		})
	}
}
