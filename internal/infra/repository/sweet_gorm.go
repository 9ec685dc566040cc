package repository

import (
	"context"
	"errors"
	"strings"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SweetGormRepository struct {
	db *gorm.DB
}

// DI
func NewSweetGormRepository(db *gorm.DB) *SweetGormRepository {
	return &SweetGormRepository{db: db}
}

// IDで商品を取得
func (r *SweetGormRepository) FindByID(ctx context.Context, id string) (model.Sweet, error) {
	var s model.Sweet
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sweet{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 全件取得（呼び出し時点のスナップショット）
func (r *SweetGormRepository) List(ctx context.Context) ([]model.Sweet, error) {
	var sweets []model.Sweet
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// 名前/カテゴリ/価格帯のAND検索
func (r *SweetGormRepository) Search(ctx context.Context, q repo.SweetSearchQuery) ([]model.Sweet, int64, error) {
	var sweets []model.Sweet

	tx := r.db.WithContext(ctx).Model(&model.Sweet{})

	if strings.TrimSpace(q.Name) != "" {
		like := "%" + strings.TrimSpace(q.Name) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}
	if q.Category != nil {
		tx = tx.Where("category = ?", *q.Category)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	if err := tx.Order("created_at desc").Find(&sweets).Error; err != nil {
		return nil, 0, err
	}
	return sweets, int64(len(sweets)), nil
}

// 商品の作成（IDとタイムスタンプはここで採番）
func (r *SweetGormRepository) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	s.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 指定フィールドだけ置き換える
func (r *SweetGormRepository) Update(ctx context.Context, id string, f repo.SweetUpdateFields) (model.Sweet, error) {
	values := map[string]interface{}{}
	if f.Name != nil {
		values["name"] = *f.Name
	}
	if f.Price != nil {
		values["price"] = *f.Price
	}
	if f.Description != nil {
		values["description"] = *f.Description
	}
	if f.Image != nil {
		values["image"] = *f.Image
	}
	if f.Category != nil {
		values["category"] = *f.Category
	}
	if f.Quantity != nil {
		values["quantity"] = *f.Quantity
	}

	if len(values) == 0 {
		return r.FindByID(ctx, id)
	}

	var s model.Sweet
	res := r.db.WithContext(ctx).
		Model(&s).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return model.Sweet{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Sweet{}, repo.ErrNotFound
	}
	return s, nil
}

// 商品削除
func (r *SweetGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Sweet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす。
// 比較と減算をDB側の1つの条件付きUPDATEで行うので、
// 並行して呼ばれても在庫が負になることはない。
func (r *SweetGormRepository) DecreaseQuantityIfEnough(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	var s model.Sweet
	res := r.db.WithContext(ctx).
		Model(&s).
		Clauses(clause.Returning{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return model.Sweet{}, res.Error
	}
	if res.RowsAffected == 0 {
		// 行が無いのか在庫不足なのかを区別する
		if _, err := r.FindByID(ctx, id); err != nil {
			return model.Sweet{}, err
		}
		return model.Sweet{}, repo.ErrInsufficientStock
	}
	return s, nil
}

// 在庫戻し・補充（存在すれば必ず成功）
func (r *SweetGormRepository) IncreaseQuantity(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	var s model.Sweet
	res := r.db.WithContext(ctx).
		Model(&s).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return model.Sweet{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Sweet{}, repo.ErrNotFound
	}
	return s, nil
}
