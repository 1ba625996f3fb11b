package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "page=3&limit=5", 3, 5, 10},
		{"zero page clamps", "page=0&limit=5", 1, 5, 0},
		{"negative page clamps", "page=-2", 1, 10, 0},
		{"zero limit falls back", "limit=0", 1, 10, 0},
		{"oversized limit falls back", "limit=500", 1, 10, 0},
		{"max limit allowed", "limit=100", 1, 100, 0},
		{"garbage values", "page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := paramsFor(t, tc.query)
			require.Equal(t, tc.wantPage, params.Page)
			require.Equal(t, tc.wantLimit, params.Limit)
			require.Equal(t, tc.wantOffset, params.Offset)
		})
	}
}
