package usecase

import (
	"context"
	"net/http"
	"strings"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"
)

// GET /api/sweets/search の入力DTO。すべて任意でAND結合。
type SearchSweetsInput struct {
	Name     string
	Category *string
	MinPrice *int64
	MaxPrice *int64
}

// レスポンスにそのまま返す検索条件
type SearchCriteria struct {
	Name     string  `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	MinPrice *int64  `json:"minPrice,omitempty"`
	MaxPrice *int64  `json:"maxPrice,omitempty"`
}

type SearchSweetsOutput struct {
	Sweets       []model.Sweet  `json:"sweets"`
	TotalResults int64          `json:"totalResults"`
	Criteria     SearchCriteria `json:"searchCriteria"`
}

// Searchは読み取り専用。条件なしなら全件を返す。
func (u *SweetUsecase) Search(ctx context.Context, in SearchSweetsInput) (SearchSweetsOutput, error) {
	q := repo.SweetSearchQuery{
		Name:     strings.TrimSpace(in.Name),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	}

	if in.Category != nil {
		category := model.Category(*in.Category)
		if !category.IsValid() {
			return SearchSweetsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		q.Category = &category
	}

	if in.MinPrice != nil && *in.MinPrice < 0 {
		return SearchSweetsOutput{}, NewHTTPError(http.StatusBadRequest, "minPrice must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return SearchSweetsOutput{}, NewHTTPError(http.StatusBadRequest, "maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return SearchSweetsOutput{}, NewHTTPError(http.StatusBadRequest, "minPrice must be <= maxPrice")
	}

	sweets, total, err := u.sweetRepo.Search(ctx, q)
	if err != nil {
		return SearchSweetsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SearchSweetsOutput{
		Sweets:       sweets,
		TotalResults: total,
		Criteria: SearchCriteria{
			Name:     q.Name,
			Category: in.Category,
			MinPrice: in.MinPrice,
			MaxPrice: in.MaxPrice,
		},
	}, nil
}
