package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"sweetshop/internal/domain/model"
	"sweetshop/internal/repository"
)

var (
	// 入力が不正
	ErrAllFieldsRequired  = errors.New("all fields are required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 会員登録の入力
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterUserUsecaseは会員登録の処理。
// roleは常にuserで作成する（リクエストからは受け取らない）。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   AccessTokenIssuer
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (model.User, string, error) {
	email := strings.TrimSpace(in.Email)

	//必須チェック
	if email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return model.User{}, "", ErrAllFieldsRequired
	}

	//email形式
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, "", ErrInvalidEmailFormat
	}

	//パスワード最低文字数（MVP: 8）
	if len(in.Password) < 8 {
		return model.User{}, "", ErrPasswordTooShort
	}

	//email重複チェック
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return model.User{}, "", ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, "", err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, "", err
	}

	created, err := u.userRepo.Create(ctx, model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return model.User{}, "", ErrEmailAlreadyExists
		}
		return model.User{}, "", err
	}

	//登録直後にトークンも発行する
	token, _, err := u.issuer.Issue(created.ID, created.Role, u.clock.Now())
	if err != nil {
		return model.User{}, "", err
	}

	return created, token, nil
}
