package auth

import (
	"context"
	"errors"
	"strings"

	"sweetshop/internal/domain/model"
	"sweetshop/internal/repository"
)

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid email or password")

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (model.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return model.User{}, "", ErrAllFieldsRequired
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return model.User{}, "", ErrInvalidCredentials
	}

	//AccessToken発行
	token, _, err := u.issuer.Issue(user.ID, user.Role, u.clock.Now())
	if err != nil {
		return model.User{}, "", err
	}

	return user, token, nil
}
