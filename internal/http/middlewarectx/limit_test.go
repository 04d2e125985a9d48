package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(0, 2) // без пополнения: ровно два запроса
	middleware := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 3)
	var lastBody string
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
		rec := httptest.NewRecorder()
		middleware.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		lastBody = rec.Body.String()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	// тело 429 в том же формате {status,error}, что и остальные ошибки
	assert.Contains(t, lastBody, `"status":"Error"`)
	assert.Contains(t, lastBody, `"error":"too many requests"`)
}
