package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/easyorder/internal/catalog"
	"github.com/hitoshi/easyorder/internal/model"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, input catalog.CreateInput) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

// CatalogHandler は商品カタログ関連のHTTPハンドラー。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts は商品一覧を返す。新しい商品が先頭。
// GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetProductImage はプリフェッチ済みの商品画像を返す。
// 画像が未取得の商品は404。
// GET /api/products/{id}/image
func (h *CatalogHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.service.Get(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if len(product.ImageData) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", product.ImageMime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(product.ImageData)
}

type createProductRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Unit     string `json:"unit"`
	ImageURL string `json:"image_url"`
}

// CreateProduct は商品を登録する（管理者専用）。
// 価格はカンマ小数表記も受け付ける（例: "45,90"）。
// POST /api/admin/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	product, err := h.service.Create(r.Context(), catalog.CreateInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Unit:     req.Unit,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toProductResponse(product))
}

// DeleteProduct は商品を削除し、全カートからも取り除く（管理者専用）。
// DELETE /api/admin/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), productID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
