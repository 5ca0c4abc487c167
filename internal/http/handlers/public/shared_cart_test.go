package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brewcart/internal/models"
	"github.com/brewcart/internal/provider"
	"github.com/brewcart/internal/repository"
	"github.com/brewcart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSharedCartHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:shared_cart_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.SharedCart{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	repo := repository.NewSharedCartRepository(db)
	svc := service.NewShareService(repo, service.ShareServiceOptions{})
	handler := New(&provider.Container{SharedCartRepo: repo, ShareService: svc})

	r := gin.New()
	r.POST("/api/shared-cart/", handler.SaveSharedCart)
	r.GET("/api/shared-cart/:code", handler.GetSharedCart)
	return r
}

func TestSaveSharedCartMissingEncoded(t *testing.T) {
	r := setupSharedCartHandlerTest(t)

	for _, body := range []string{`{}`, `{"encoded": ""}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/shared-cart/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got: %d", body, w.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		if resp["message"] != "Missing encoded cart data" {
			t.Fatalf("unexpected message: %q", resp["message"])
		}
	}
}

func TestSaveSharedCartReturnsCode(t *testing.T) {
	r := setupSharedCartHandlerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/shared-cart/", strings.NewReader(`{"encoded": "eyJpdGVtcyI6W119"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	code := resp["code"]
	if len(code) != 8 || code != strings.ToUpper(code) {
		t.Fatalf("expected 8-char uppercase code, got: %q", code)
	}
}

func TestGetSharedCartNotFound(t *testing.T) {
	r := setupSharedCartHandlerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/shared-cart/ZZZZZZZZ", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got: %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["message"] != "Not found" {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestGetSharedCartLowercaseLookup(t *testing.T) {
	r := setupSharedCartHandlerTest(t)

	// 先保存拿到分享码
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/shared-cart/", strings.NewReader(`{"encoded": "opaque-payload"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save failed: %d", w.Code)
	}
	var saved map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("unmarshal save response failed: %v", err)
	}

	// 小写查询同样命中
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/shared-cart/"+strings.ToLower(saved["code"]), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["encoded"] != "opaque-payload" {
		t.Fatalf("expected stored payload returned unchanged, got: %q", resp["encoded"])
	}
}
