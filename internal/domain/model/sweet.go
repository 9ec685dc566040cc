package model

import "time"

// 商品カテゴリ（固定の列挙）
type Category string

const (
	CategoryChocolate Category = "chocolate"
	CategoryCaramel   Category = "caramel"
	CategoryToffee    Category = "toffee"
	CategoryFudge     Category = "fudge"
	CategoryOther     Category = "other"
)

var validCategories = []Category{
	CategoryChocolate,
	CategoryCaramel,
	CategoryToffee,
	CategoryFudge,
	CategoryOther,
}

// 列挙に含まれるカテゴリかどうか
func (c Category) IsValid() bool {
	for _, v := range validCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Sweet struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64     `gorm:"not null" json:"price"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"type:text;not null" json:"image"`
	Category    Category  `gorm:"type:varchar(20);not null" json:"category"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
