package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"
)

// SweetUsecaseは在庫エンジン本体。
// 認可はmiddlewareで済んでいる前提で、入力検証と
// repository経由の条件付き更新だけを行う。
// 呼び出しごとに現在値を読み直し、プロセス内に状態を持たない。
type SweetUsecase struct {
	sweetRepo repo.SweetRepository
}

// DI
func NewSweetUsecase(sweetRepo repo.SweetRepository) *SweetUsecase {
	return &SweetUsecase{sweetRepo: sweetRepo}
}

// POST /api/sweets の入力DTO。
// PriceとQuantityは「未指定」と「0」を区別するためポインタ。
type CreateSweetInput struct {
	Name        string
	Price       *int64
	Description string
	Image       string
	Category    string
	Quantity    *int64
}

// 検証の優先順位: 欠落 > カテゴリ不正 > 数量不正 > 価格不正
func (u *SweetUsecase) Create(ctx context.Context, adminID string, in CreateSweetInput) (model.Sweet, error) {
	if adminID == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//欠落チェック（宣言順に最初の1件を返す）
	if strings.TrimSpace(in.Name) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.Price == nil {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "price is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if strings.TrimSpace(in.Image) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "image is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if in.Quantity == nil {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "quantity is required")
	}

	category := model.Category(in.Category)
	if !category.IsValid() {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if *in.Quantity <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}
	if *in.Price <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "price must be greater than 0")
	}

	s, err := u.sweetRepo.Create(ctx, model.Sweet{
		Name:        strings.TrimSpace(in.Name),
		Price:       *in.Price,
		Description: in.Description,
		Image:       in.Image,
		Category:    category,
		Quantity:    *in.Quantity,
	})
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *SweetUsecase) Get(ctx context.Context, id string) (model.Sweet, error) {
	s, err := u.sweetRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sweet{}, NewHTTPError(http.StatusNotFound, "sweet not found")
	}
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *SweetUsecase) List(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := u.sweetRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sweets, nil
}

// PUT /api/sweets/:id の入力DTO。nilは「変更しない」。
type UpdateSweetInput struct {
	Name        *string
	Price       *int64
	Description *string
	Image       *string
	Category    *string
	Quantity    *int64
}

// 指定されたフィールドだけを置き換える。
// カテゴリ以外は型以上の制約を課さない。
func (u *SweetUsecase) Update(ctx context.Context, adminID string, id string, in UpdateSweetInput) (model.Sweet, error) {
	if adminID == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields := repo.SweetUpdateFields{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		Quantity:    in.Quantity,
	}

	if in.Category != nil {
		category := model.Category(*in.Category)
		if !category.IsValid() {
			return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		fields.Category = &category
	}

	s, err := u.sweetRepo.Update(ctx, id, fields)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sweet{}, NewHTTPError(http.StatusNotFound, "sweet not found")
	}
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *SweetUsecase) Delete(ctx context.Context, adminID string, id string) error {
	if adminID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.sweetRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "sweet not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// Purchaseは在庫を減らす。
// 読み出し→比較→書き込みをアプリ側で分けると同時購入で
// 負の在庫や上書き消失が起きるため、減算は必ず
// repositoryの条件付きUPDATE1回で行う。
func (u *SweetUsecase) Purchase(ctx context.Context, userID string, id string, amount int64) (model.Sweet, error) {
	if userID == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if amount <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "quantity must be a positive number")
	}

	s, err := u.sweetRepo.DecreaseQuantityIfEnough(ctx, id, amount)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sweet{}, NewHTTPError(http.StatusNotFound, "sweet not found")
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "insufficient stock")
	}
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// Restockは在庫を増やす。存在すれば必ず成功する。
func (u *SweetUsecase) Restock(ctx context.Context, adminID string, id string, amount int64) (model.Sweet, error) {
	if adminID == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if amount <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusBadRequest, "quantity must be a positive number")
	}

	s, err := u.sweetRepo.IncreaseQuantity(ctx, id, amount)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sweet{}, NewHTTPError(http.StatusNotFound, "sweet not found")
	}
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}
