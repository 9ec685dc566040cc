package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"
	"sweetshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type SweetRepoMock struct{ mock.Mock }

func (m *SweetRepoMock) FindByID(ctx context.Context, id string) (model.Sweet, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Sweet)
	return s, args.Error(1)
}

func (m *SweetRepoMock) List(ctx context.Context) ([]model.Sweet, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Sweet)
	return items, args.Error(1)
}

func (m *SweetRepoMock) Search(ctx context.Context, q repo.SweetSearchQuery) ([]model.Sweet, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Sweet)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *SweetRepoMock) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Sweet)
	return created, args.Error(1)
}

func (m *SweetRepoMock) Update(ctx context.Context, id string, f repo.SweetUpdateFields) (model.Sweet, error) {
	args := m.Called(ctx, id, f)
	updated, _ := args.Get(0).(model.Sweet)
	return updated, args.Error(1)
}

func (m *SweetRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SweetRepoMock) DecreaseQuantityIfEnough(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	args := m.Called(ctx, id, qty)
	s, _ := args.Get(0).(model.Sweet)
	return s, args.Error(1)
}

func (m *SweetRepoMock) IncreaseQuantity(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	args := m.Called(ctx, id, qty)
	s, _ := args.Get(0).(model.Sweet)
	return s, args.Error(1)
}

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, message, he.Message)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func validCreateInput() usecase.CreateSweetInput {
	return usecase.CreateSweetInput{
		Name:        "Dark Truffle",
		Price:       int64Ptr(120),
		Description: "70% cacao",
		Image:       "truffle.jpg",
		Category:    "chocolate",
		Quantity:    int64Ptr(50),
	}
}

// =====================
// Create
// =====================

func TestSweetUsecase_Create_Success(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	in := validCreateInput()
	want := model.Sweet{
		Name:        "Dark Truffle",
		Price:       120,
		Description: "70% cacao",
		Image:       "truffle.jpg",
		Category:    model.CategoryChocolate,
		Quantity:    50,
	}
	sRepo.On("Create", mock.Anything, want).Return(model.Sweet{ID: "id-1", Name: "Dark Truffle"}, nil)

	created, err := uc.Create(ctx, "admin-1", in)
	assert.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)

	sRepo.AssertExpectations(t)
}

// 欠落チェックはカテゴリや価格の検証より先に報告される
func TestSweetUsecase_Create_MissingQuantityReportedFirst(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	in := validCreateInput()
	in.Quantity = nil
	in.Category = "plutonium" // カテゴリも不正
	in.Price = int64Ptr(-5)   // 価格も不正

	_, err := uc.Create(context.Background(), "admin-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "quantity is required")

	sRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSweetUsecase_Create_MissingName(t *testing.T) {
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	in := validCreateInput()
	in.Name = "   "

	_, err := uc.Create(context.Background(), "admin-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "name is required")
}

// 同じ入力なら何度呼んでも同じエラーで、レコードは作られない
func TestSweetUsecase_Create_InvalidCategory(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	in := validCreateInput()
	in.Category = "licorice"

	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), "admin-1", in)
		assertHTTPError(t, err, http.StatusBadRequest, "invalid category")
	}

	sRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSweetUsecase_Create_NonPositiveQuantity(t *testing.T) {
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	in := validCreateInput()
	in.Quantity = int64Ptr(0)

	_, err := uc.Create(context.Background(), "admin-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "quantity must be greater than 0")
}

// 数量と価格が両方不正なら数量が先
func TestSweetUsecase_Create_QuantityCheckedBeforePrice(t *testing.T) {
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	in := validCreateInput()
	in.Quantity = int64Ptr(-1)
	in.Price = int64Ptr(0)

	_, err := uc.Create(context.Background(), "admin-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "quantity must be greater than 0")
}

func TestSweetUsecase_Create_NonPositivePrice(t *testing.T) {
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	in := validCreateInput()
	in.Price = int64Ptr(0)

	_, err := uc.Create(context.Background(), "admin-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "price must be greater than 0")
}

// =====================
// Get / Update / Delete
// =====================

func TestSweetUsecase_Get_NotFound(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("FindByID", mock.Anything, "missing").Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), "missing")
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")
}

func TestSweetUsecase_Update_InvalidCategory(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	_, err := uc.Update(context.Background(), "admin-1", "id-1", usecase.UpdateSweetInput{
		Category: strPtr("gummy"),
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid category")

	sRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweetUsecase_Update_PartialFields(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	category := model.CategoryToffee
	wantFields := repo.SweetUpdateFields{
		Name:     strPtr("Butter Toffee"),
		Category: &category,
	}
	sRepo.On("Update", mock.Anything, "id-1", wantFields).
		Return(model.Sweet{ID: "id-1", Name: "Butter Toffee", Category: category}, nil)

	updated, err := uc.Update(ctx, "admin-1", "id-1", usecase.UpdateSweetInput{
		Name:     strPtr("Butter Toffee"),
		Category: strPtr("toffee"),
	})
	assert.NoError(t, err)
	assert.Equal(t, model.CategoryToffee, updated.Category)

	sRepo.AssertExpectations(t)
}

func TestSweetUsecase_Update_NotFound(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("Update", mock.Anything, "missing", mock.Anything).Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Update(context.Background(), "admin-1", "missing", usecase.UpdateSweetInput{
		Name: strPtr("Renamed"),
	})
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")
}

func TestSweetUsecase_Delete_NotFound(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("Delete", mock.Anything, "missing").Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), "admin-1", "missing")
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")
}

// =====================
// Purchase / Restock
// =====================

func TestSweetUsecase_Purchase_NonPositiveAmount(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	for _, amount := range []int64{0, -3} {
		_, err := uc.Purchase(context.Background(), "user-1", "id-1", amount)
		assertHTTPError(t, err, http.StatusBadRequest, "quantity must be a positive number")
	}

	sRepo.AssertNotCalled(t, "DecreaseQuantityIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweetUsecase_Purchase_Success(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("DecreaseQuantityIfEnough", mock.Anything, "id-1", int64(5)).
		Return(model.Sweet{ID: "id-1", Quantity: 45}, nil)

	s, err := uc.Purchase(context.Background(), "user-1", "id-1", 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(45), s.Quantity)

	sRepo.AssertExpectations(t)
}

func TestSweetUsecase_Purchase_InsufficientStock(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("DecreaseQuantityIfEnough", mock.Anything, "id-1", int64(60)).
		Return(model.Sweet{}, repo.ErrInsufficientStock)

	_, err := uc.Purchase(context.Background(), "user-1", "id-1", 60)
	assertHTTPError(t, err, http.StatusBadRequest, "insufficient stock")
}

func TestSweetUsecase_Purchase_NotFound(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("DecreaseQuantityIfEnough", mock.Anything, "missing", int64(5)).
		Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Purchase(context.Background(), "user-1", "missing", 5)
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")
}

func TestSweetUsecase_Restock_Success(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("IncreaseQuantity", mock.Anything, "id-1", int64(20)).
		Return(model.Sweet{ID: "id-1", Quantity: 70}, nil)

	s, err := uc.Restock(context.Background(), "admin-1", "id-1", 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(70), s.Quantity)
}

func TestSweetUsecase_Restock_NonPositiveAmount(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	_, err := uc.Restock(context.Background(), "admin-1", "id-1", -5)
	assertHTTPError(t, err, http.StatusBadRequest, "quantity must be a positive number")

	sRepo.AssertNotCalled(t, "IncreaseQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweetUsecase_Restock_NotFound(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("IncreaseQuantity", mock.Anything, "missing", int64(10)).
		Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Restock(context.Background(), "admin-1", "missing", 10)
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")
}

// =====================
// Search
// =====================

func TestSweetUsecase_Search_InvalidCategory(t *testing.T) {
	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	_, err := uc.Search(context.Background(), usecase.SearchSweetsInput{
		Category: strPtr("nougat"),
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid category")
}

func TestSweetUsecase_Search_MinGreaterThanMax(t *testing.T) {
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	_, err := uc.Search(context.Background(), usecase.SearchSweetsInput{
		MinPrice: int64Ptr(100),
		MaxPrice: int64Ptr(50),
	})
	assertHTTPError(t, err, http.StatusBadRequest, "minPrice must be <= maxPrice")
}

// 条件はそのままレスポンスへ返す
func TestSweetUsecase_Search_EchoesCriteria(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	category := model.CategoryChocolate
	wantQuery := repo.SweetSearchQuery{
		Name:     "choco",
		Category: &category,
		MinPrice: int64Ptr(60),
	}
	items := []model.Sweet{{ID: "id-1", Name: "Choco Bar", Price: 80, Category: category}}
	sRepo.On("Search", mock.Anything, wantQuery).Return(items, int64(1), nil)

	out, err := uc.Search(ctx, usecase.SearchSweetsInput{
		Name:     " choco ",
		Category: strPtr("chocolate"),
		MinPrice: int64Ptr(60),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.TotalResults)
	assert.Equal(t, "choco", out.Criteria.Name)
	assert.Equal(t, "chocolate", *out.Criteria.Category)
	assert.Equal(t, int64(60), *out.Criteria.MinPrice)
	assert.Nil(t, out.Criteria.MaxPrice)

	sRepo.AssertExpectations(t)
}
