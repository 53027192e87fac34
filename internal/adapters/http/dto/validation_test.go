package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid quote", body: `{"text":"Why so serious?","sourceId":3,"weight":2}`},
		{name: "weight omitted", body: `{"text":"Why so serious?","sourceId":3}`},
		{name: "malformed JSON", body: `{"text":`, wantErr: ErrBinding},
		{name: "wrong type", body: `{"text":"x","sourceId":"three"}`, wantErr: ErrBinding},
		{name: "missing source", body: `{"text":"x"}`, wantErr: ErrValidation},
		{name: "negative source", body: `{"text":"x","sourceId":-1}`, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req QuoteRequest

			err := BindAndValidate(c, &req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(3), req.SourceID)
		})
	}
}

func TestBindAndValidate_OptionalWeight(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"x","sourceId":1,"weight":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req QuoteRequest
	require.NoError(t, BindAndValidate(c, &req))

	// Zero is passed through so the domain can reject it with invalid_weight.
	require.NotNil(t, req.Weight)
	assert.Equal(t, 0, *req.Weight)
}

func TestValidationErrors(t *testing.T) {
	err := Validate(&SourceRequest{Name: strings.Repeat("n", 201), Kind: strings.Repeat("k", 33)})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	got := ValidationErrors(err)
	assert.Equal(t, "must be at most 200 characters", got["name"])
	assert.Equal(t, "must be at most 32 characters", got["kind"])

	assert.Empty(t, ValidationErrors(errors.New("some error")))
	assert.False(t, IsValidationError(errors.New("some error")))
	assert.False(t, IsValidationError(nil))
}

func TestMinMaxMessage(t *testing.T) {
	assert.Equal(t, "must be at least 1 characters", minMaxMessage("min", "1", reflect.String))
	assert.Equal(t, "must be at most 10", minMaxMessage("max", "10", reflect.Int))
}
