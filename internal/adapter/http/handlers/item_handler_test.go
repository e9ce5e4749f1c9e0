package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"billingapp/internal/adapter/http/handlers/mocks"
	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestCatalogItemHandler_CreateItem(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICatalogItemUseCase(ctrl)
		h := NewCatalogItemHandler(uc)

		r := gin.New()
		r.POST("/v1/items", h.CreateItem)

		req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("negative rate maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICatalogItemUseCase(ctrl)
		h := NewCatalogItemHandler(uc)

		r := gin.New()
		r.POST("/v1/items", h.CreateItem)

		uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.CatalogItem{}, usecase.ErrInvalidItemRate)

		body := `{"name":"Labor hour","rate":-5}`
		req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success returns 201 with category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICatalogItemUseCase(ctrl)
		h := NewCatalogItemHandler(uc)

		r := gin.New()
		r.POST("/v1/items", h.CreateItem)

		uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.NewCatalogItem) (entities.CatalogItem, error) {
				if in.Name != "Labor hour" || in.Category != entities.ItemCategoryLabor {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.CatalogItem{ID: "item-1", Name: in.Name, Category: in.Category, Rate: in.Rate}, nil
			},
		)

		body := `{"name":"Labor hour","category":"labor","rate":45,"tax":true}`
		req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var got map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if got["id"] != "item-1" || got["category"] != "labor" {
			t.Fatalf("unexpected body: %v", got)
		}
	})
}

func TestCatalogItemHandler_GetItem(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found maps to 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICatalogItemUseCase(ctrl)
		h := NewCatalogItemHandler(uc)

		r := gin.New()
		r.GET("/v1/items/:item_id", h.GetItem)

		uc.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.CatalogItem{}, usecase.ErrCatalogItemNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/items/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success returns the item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICatalogItemUseCase(ctrl)
		h := NewCatalogItemHandler(uc)

		r := gin.New()
		r.GET("/v1/items/:item_id", h.GetItem)

		uc.EXPECT().GetByID(gomock.Any(), "item-1").Return(entities.CatalogItem{ID: "item-1", Name: "Labor hour"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/items/item-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
