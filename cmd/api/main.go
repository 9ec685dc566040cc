package main

import (
	"log"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/handler"
	"sweetshop/internal/infra/db"
	infraRepo "sweetshop/internal/infra/repository"
	"sweetshop/internal/server"
	"sweetshop/internal/usecase"
	auth "sweetshop/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Sweet{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	sweetRepo := infraRepo.NewSweetGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer（有効期限1日）
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, issuer, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	sweetUC := usecase.NewSweetUsecase(sweetRepo)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC)
	sweetH := handler.NewSweetHandler(sweetUC)
	adminH := handler.NewAdminSweetHandler(sweetUC)

	//Server起動
	e := server.New(cfg, authH, sweetH, adminH)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
