package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plexcars/catalog/internal/domain"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"app_error_unavailable", domain.NewAppError(domain.CodeUnavailable, "gateway down", nil), http.StatusBadGateway, "gateway down"},
		{"app_error_validation", domain.NewAppError(domain.CodeValidation, "bad page", nil), http.StatusBadRequest, "bad page"},
		{"plain_error_hidden", errors.New("secret internals"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tt.wantStatus)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q; want %q", resp.Message, tt.wantMsg)
			}
		})
	}
}

type bindTarget struct {
	Limit int    `form:"_limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Query string `form:"q" json:"query" binding:"omitempty,max=200"`
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("happy_valid_query", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?_limit=12&q=BMW", nil)

		var req bindTarget
		if !BindAndValidate(c, &req) {
			t.Fatalf("BindAndValidate failed: %s", w.Body.String())
		}
		if req.Limit != 12 || req.Query != "BMW" {
			t.Errorf("bound = %+v; want limit 12, query BMW", req)
		}
	})

	t.Run("error_out_of_range_uses_json_tag", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?_limit=9999", nil)

		var req bindTarget
		if BindAndValidate(c, &req) {
			t.Fatal("expected validation failure")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
		var resp ValidationErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if _, ok := resp.Errors["limit"]; !ok {
			t.Errorf("errors = %v; want entry under json tag 'limit'", resp.Errors)
		}
	})
}
