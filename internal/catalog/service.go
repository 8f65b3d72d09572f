package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/repository"
)

// defaultCategory はカテゴリ未指定時の補完値。
const defaultCategory = "Geral"

// defaultUnit は販売単位未指定時の補完値。
const defaultUnit = "un"

// Service は商品カタログのビジネスロジックを提供する。
// 参照は全ユーザー、作成・削除は管理者専用（認可はハンドラー側で行う）。
type Service struct {
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	images      ImageFetcherService
}

// NewService はServiceを生成する。imagesはnil可（プリフェッチ無効）。
func NewService(productRepo repository.ProductRepository, cartRepo repository.CartRepository, images ImageFetcherService) *Service {
	return &Service{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		images:      images,
	}
}

// CreateInput は商品登録の入力。Priceは表示形式の文字列のまま受け取り、
// カンマ小数点（12,50）とピリオド小数点（12.50)の両方を受け付ける。
type CreateInput struct {
	Name     string
	Category string
	Price    string
	Unit     string
	ImageURL string
}

// List は全商品を新しい順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get は指定IDの商品を返す。見つからない場合はAPIErrorを返す。
func (s *Service) Get(ctx context.Context, productID string) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if p == nil {
		return nil, model.NewProductNotFoundError(productID)
	}
	return p, nil
}

// Create は商品をカタログの先頭に登録する。
//
// 名前と価格は必須。カテゴリ未指定はGeral、単位未指定はunに補完され、
// 画像URL未指定はプレースホルダーが割り当てられる。
// 画像URLが指定された場合はSSRF検証付きでプリフェッチを試み、
// 失敗しても登録は成立する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Product, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Price) == "" {
		return nil, model.NewMissingFieldsError()
	}

	price, err := ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultCategory
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = fmt.Sprintf("https://picsum.photos/seed/%s/300/300", id)
	}

	product := &model.Product{
		ID:       id,
		Name:     input.Name,
		Category: category,
		Price:    price,
		Unit:     unit,
		ImageURL: imageURL,
	}

	if s.images != nil && strings.TrimSpace(input.ImageURL) != "" {
		data, mime, _ := s.images.FetchImage(ctx, imageURL)
		product.ImageData = data
		product.ImageMime = mime
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	slog.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("price", product.Price.StringFixed(2)),
	)
	return product, nil
}

// Delete は商品をカタログから削除し、全セッションのカートからも取り除く。
// 過去の注文明細はスナップショットのため影響を受けない。
func (s *Service) Delete(ctx context.Context, productID string) error {
	existing, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if existing == nil {
		return model.NewProductNotFoundError(productID)
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := s.cartRepo.RemoveProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to remove product from carts: %w", err)
	}

	slog.Info("product deleted", slog.String("product_id", productID))
	return nil
}

// ParsePrice は表示形式の価格文字列をdecimalに変換する。
// カンマ小数点はピリオドに正規化する。負値と数値以外は拒否する。
func ParsePrice(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	price, err := decimal.NewFromString(normalized)
	if err != nil || price.IsNegative() {
		return decimal.Zero, model.NewInvalidPriceError(raw)
	}
	return price, nil
}
