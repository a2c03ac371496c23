package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
)

// errorApp mounts one route per sentinel so respondError can be driven through
// a real Fiber request cycle.
func errorApp(errs map[string]error) *fiber.App {
	app := fiber.New()
	for path, err := range errs {
		err := err
		app.Get("/"+path, func(c *fiber.Ctx) error {
			return respondError(c, nil, err)
		})
	}
	return app
}

func TestRespondError_SentinelTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"forbidden", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"not-found", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"duplicate", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"conflict", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid-input", domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	}

	errs := map[string]error{}
	for _, tc := range cases {
		errs[tc.name] = tc.err
	}
	app := errorApp(errs)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.name, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.Empty(t, body.CorrelationID, "only 500s carry a correlation id")
		})
	}
}

// A wrapped sentinel still maps: handlers annotate errors with context and the
// taxonomy must see through the wrapping.
func TestRespondError_WrappedSentinel(t *testing.T) {
	app := errorApp(map[string]error{
		"wrapped": fmt.Errorf("updating branch: %w", domain.ErrConflict),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/wrapped", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// Unrecognized errors become an opaque 500 whose body carries a correlation id
// and nothing about the underlying failure.
func TestRespondError_UnknownErrorIsOpaque(t *testing.T) {
	app := errorApp(map[string]error{
		"boom": fmt.Errorf("pg: connection refused"),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotEmpty(t, body.CorrelationID)
	assert.NotContains(t, body.Message, "connection refused")
}
