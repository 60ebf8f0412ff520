package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_WrapKeepsIdentity(t *testing.T) {
	cause := errors.New("upstream 500")
	err := fmt.Errorf("search: %w", ErrSearchFailed.Wrap(cause))

	assert.True(t, errors.Is(err, ErrSearchFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrTrendingFailed))
	assert.Equal(t, "search: Search failed. Please try again later.: upstream 500", err.Error())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, StatusOf(ErrDetailsUnavailable.Wrap(errors.New("x"))))
	assert.Equal(t, http.StatusBadRequest, StatusOf(NewValidationError("bad")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestToResponse(t *testing.T) {
	resp := ToResponse(ErrNotFound, false)
	assert.Equal(t, ErrorResponse{Code: ErrCodeNotFound, Message: "Resource not found"}, resp)

	resp = ToResponse(NewValidationError("mode must be dish or ingredient"), false)
	assert.Equal(t, ErrCodeInvalidRequest, resp.Code)
	assert.Equal(t, "mode must be dish or ingredient", resp.Message)

	// 未知錯誤不外洩細節，除非 debug
	resp = ToResponse(errors.New("dial tcp: refused"), false)
	assert.Equal(t, ErrCodeInternalError, resp.Code)
	assert.Empty(t, resp.Details)

	resp = ToResponse(errors.New("dial tcp: refused"), true)
	assert.Equal(t, "dial tcp: refused", resp.Details)
}
