package repository

import (
	"context"
	"errors"

	"sweetshop/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// 在庫不足（条件付き減算が成立しなかった）
	ErrInsufficientStock = errors.New("insufficient stock")
)

// 検索条件（すべて任意、AND結合）
type SweetSearchQuery struct {
	Name     string
	Category *model.Category
	MinPrice *int64
	MaxPrice *int64
}

// 更新対象のフィールド（nilは「変更しない」）
type SweetUpdateFields struct {
	Name        *string
	Price       *int64
	Description *string
	Image       *string
	Category    *model.Category
	Quantity    *int64
}

// 商品レコードの永続化だけを約束。
// 在庫数を書き換えてよいのはこのinterfaceの実装だけ。
type SweetRepository interface {
	FindByID(ctx context.Context, id string) (model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Search(ctx context.Context, q SweetSearchQuery) ([]model.Sweet, int64, error)

	// IDとタイムスタンプを採番して保存する
	Create(ctx context.Context, s model.Sweet) (model.Sweet, error)

	// 指定フィールドだけ置き換える（在庫調整には使わない）
	Update(ctx context.Context, id string, f SweetUpdateFields) (model.Sweet, error)

	Delete(ctx context.Context, id string) error

	// 在庫が足りるときだけ減算する。
	// 読み出し→比較→書き込みを1つの条件付きUPDATEとして実行すること。
	DecreaseQuantityIfEnough(ctx context.Context, id string, qty int64) (model.Sweet, error)

	// 在庫を加算する（存在すれば必ず成功）
	IncreaseQuantity(ctx context.Context, id string, qty int64) (model.Sweet, error)
}
