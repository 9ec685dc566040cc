package usecase_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	infraRepo "sweetshop/internal/infra/repository"
	"sweetshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryEngine(t *testing.T, initialQuantity int64) (*usecase.SweetUsecase, *infraRepo.SweetMemoryRepository, string) {
	t.Helper()

	memRepo := infraRepo.NewSweetMemoryRepository()
	uc := usecase.NewSweetUsecase(memRepo)

	created, err := uc.Create(context.Background(), "admin-1", usecase.CreateSweetInput{
		Name:        "Salted Caramel",
		Price:       int64Ptr(90),
		Description: "soft caramel with sea salt",
		Image:       "caramel.jpg",
		Category:    "caramel",
		Quantity:    int64Ptr(initialQuantity),
	})
	require.NoError(t, err)

	return uc, memRepo, created.ID
}

// 同時購入で在庫が負になったり、成立した減算が消えたりしないこと。
// 初期在庫100を7個ずつ30人が取り合うと、成立はちょうど14件で残りは2。
func TestPurchase_ConcurrentAccounting(t *testing.T) {
	const (
		initial  = int64(100)
		amount   = int64(7)
		callers  = 30
		expected = 14 // 14*7=98 <= 100 < 15*7
	)

	uc, _, id := newMemoryEngine(t, initial)

	var wg sync.WaitGroup
	var succeeded, insufficient atomic.Int64

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := uc.Purchase(context.Background(), "user-1", id, amount)
			if err == nil {
				succeeded.Add(1)
				return
			}
			if he, ok := usecase.AsHTTPError(err); ok && he.Message == "insufficient stock" {
				insufficient.Add(1)
				return
			}
			t.Errorf("unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(expected), succeeded.Load())
	assert.Equal(t, int64(callers-expected), insufficient.Load())

	s, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, initial-int64(expected)*amount, s.Quantity)
	assert.GreaterOrEqual(t, s.Quantity, int64(0))
}

// 在庫50に対して40個と20個の同時購入。合計60>50なので
// どちらか一方だけが成立し、もう一方はinsufficient stockになる。
func TestPurchase_ConcurrentOversell(t *testing.T) {
	uc, _, id := newMemoryEngine(t, 50)

	amounts := []int64{40, 20}
	results := make([]error, len(amounts))

	var wg sync.WaitGroup
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount int64) {
			defer wg.Done()
			_, results[i] = uc.Purchase(context.Background(), "user-1", id, amount)
		}(i, amount)
	}
	wg.Wait()

	var winners int
	var winnerAmount int64
	for i, err := range results {
		if err == nil {
			winners++
			winnerAmount = amounts[i]
			continue
		}
		assertHTTPError(t, err, http.StatusBadRequest, "insufficient stock")
	}
	require.Equal(t, 1, winners)

	s, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 50-winnerAmount, s.Quantity)
}

// restockしてから同じ数をpurchaseすると元の在庫に戻る
func TestRestockThenPurchase_RoundTrip(t *testing.T) {
	uc, _, id := newMemoryEngine(t, 50)

	s, err := uc.Restock(context.Background(), "admin-1", id, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(65), s.Quantity)

	s, err = uc.Purchase(context.Background(), "user-1", id, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.Quantity)
}

// 存在しないIDへのrestockは404で、レコードも作られない
func TestRestock_MissingIDCreatesNothing(t *testing.T) {
	memRepo := infraRepo.NewSweetMemoryRepository()
	uc := usecase.NewSweetUsecase(memRepo)

	_, err := uc.Restock(context.Background(), "admin-1", "no-such-id", 10)
	assertHTTPError(t, err, http.StatusNotFound, "sweet not found")

	sweets, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sweets)
}

// 購入と補充が混ざっても収支は合う
func TestPurchaseAndRestock_ConcurrentMix(t *testing.T) {
	const (
		initial   = int64(200)
		purchases = 20 // 5個ずつ
		restocks  = 10 // 3個ずつ
	)

	uc, _, id := newMemoryEngine(t, initial)

	var wg sync.WaitGroup
	var purchased atomic.Int64

	for i := 0; i < purchases; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Purchase(context.Background(), "user-1", id, 5); err == nil {
				purchased.Add(5)
			}
		}()
	}
	for i := 0; i < restocks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Restock(context.Background(), "admin-1", id, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 在庫は十分なので購入は全件成立する
	assert.Equal(t, int64(purchases*5), purchased.Load())

	s, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, initial+int64(restocks*3)-purchased.Load(), s.Quantity)
}
