package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performJSON(func(c *gin.Context) {
		Success(c, gin.H{"value": 1})
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected 200", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != 0 {
		t.Errorf("code = %d, expected 0", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("message = %q, expected %q", resp.Message, "ok")
	}
}

func TestCreated(t *testing.T) {
	w := performJSON(func(c *gin.Context) {
		Created(c, gin.H{"id": 7})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, expected 201", w.Code)
	}
	if resp := decode(t, w); resp.Message != "created" {
		t.Errorf("message = %q, expected %q", resp.Message, "created")
	}
}

func TestError_Taxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation maps to 400", apperrors.NewValidation("bad quantity"), http.StatusBadRequest},
		{"conflict maps to 409", apperrors.NewConflict("already resolved"), http.StatusConflict},
		{"dependency maps to 502", apperrors.NewDependency("store unavailable", errors.New("dial tcp")), http.StatusBadGateway},
		{"not found maps to 404", apperrors.NewNotFound("no such posting"), http.StatusNotFound},
		{"unclassified maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(func(c *gin.Context) {
				Error(c, tt.err)
			})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
			resp := decode(t, w)
			if resp.Code != tt.wantStatus {
				t.Errorf("body code = %d, expected %d", resp.Code, tt.wantStatus)
			}
			if resp.Message != tt.err.Error() {
				t.Errorf("message = %q, expected %q", resp.Message, tt.err.Error())
			}
		})
	}
}

func TestError_WrappedTaxonomy(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), apperrors.NewConflict("pending request exists"))

	w := performJSON(func(c *gin.Context) {
		Error(c, wrapped)
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, expected 409 for wrapped conflict", w.Code)
	}
}

func TestConvenienceHelpers(t *testing.T) {
	tests := []struct {
		name       string
		fn         func(c *gin.Context)
		wantStatus int
	}{
		{"BadRequest", func(c *gin.Context) { BadRequest(c, "x") }, 400},
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, "x") }, 401},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, "x") }, 403},
		{"NotFound", func(c *gin.Context) { NotFound(c, "x") }, 404},
		{"ServerError", func(c *gin.Context) { ServerError(c, "x") }, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(tt.fn)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
		})
	}
}
