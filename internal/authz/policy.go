package authz

import "sweetshop/internal/domain/model"

// Operation は認可判定の対象となる操作。
type Operation string

const (
	OpCreateSweet  Operation = "sweets.create"
	OpListSweets   Operation = "sweets.list"
	OpGetSweet     Operation = "sweets.get"
	OpSearchSweets Operation = "sweets.search"
	OpUpdateSweet  Operation = "sweets.update"
	OpDeleteSweet  Operation = "sweets.delete"
	OpPurchase     Operation = "sweets.purchase"
	OpRestock      Operation = "sweets.restock"
)

// 操作ごとに必要な最低ロール。
// ここに無い操作は拒否する。
var requiredRole = map[Operation]model.Role{
	OpCreateSweet:  model.RoleAdmin,
	OpUpdateSweet:  model.RoleAdmin,
	OpDeleteSweet:  model.RoleAdmin,
	OpRestock:      model.RoleAdmin,
	OpListSweets:   model.RoleUser,
	OpGetSweet:     model.RoleUser,
	OpSearchSweets: model.RoleUser,
	OpPurchase:     model.RoleUser,
}

// Permit は認証済みロールがopを実行できるか判定する。
func Permit(role model.Role, op Operation) bool {
	required, ok := requiredRole[op]
	if !ok {
		return false
	}

	switch required {
	case model.RoleAdmin:
		return role == model.RoleAdmin
	case model.RoleUser:
		return role == model.RoleUser || role == model.RoleAdmin
	default:
		return false
	}
}
