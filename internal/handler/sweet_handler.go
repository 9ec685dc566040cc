package handler

import (
	"net/http"
	"strconv"

	"sweetshop/internal/authz"
	"sweetshop/internal/config"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/middleware"
	"sweetshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// contextからuser_idを取り出す
func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type SweetResponse struct {
	Message string      `json:"message"`
	Sweet   model.Sweet `json:"sweet"`
}

type SweetListResponse struct {
	Message string        `json:"message"`
	Sweets  []model.Sweet `json:"sweets"`
}

type PurchaseRequest struct {
	Quantity *int64 `json:"quantity"`
}

type PurchaseResponse struct {
	Message          string      `json:"message"`
	Sweet            model.Sweet `json:"sweet"`
	PurchaseQuantity int64       `json:"purchaseQuantity"`
}

type SearchResponse struct {
	Message string `json:"message"`
	usecase.SearchSweetsOutput
}

// /api/sweets の認証ユーザー向けAPI
type SweetHandler struct {
	uc *usecase.SweetUsecase
}

// DI
func NewSweetHandler(uc *usecase.SweetUsecase) *SweetHandler {
	return &SweetHandler{uc: uc}
}

// 閲覧と購入のルートを登録
func (h *SweetHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/sweets", middleware.AuthJWT(cfg))

	g.GET("", h.list, middleware.RequireOperation(authz.OpListSweets))
	g.GET("/search", h.search, middleware.RequireOperation(authz.OpSearchSweets))
	g.GET("/:id", h.get, middleware.RequireOperation(authz.OpGetSweet))
	g.POST("/:id/purchase", h.purchase, middleware.RequireOperation(authz.OpPurchase))
}

func (h *SweetHandler) list(c echo.Context) error {
	sweets, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SweetListResponse{
		Message: "Sweets retrieved successfully",
		Sweets:  sweets,
	})
}

func (h *SweetHandler) get(c echo.Context) error {
	s, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SweetResponse{
		Message: "Sweet retrieved successfully",
		Sweet:   s,
	})
}

func (h *SweetHandler) search(c echo.Context) error {
	in := usecase.SearchSweetsInput{
		Name: c.QueryParam("name"),
	}

	if v := c.QueryParam("category"); v != "" {
		in.Category = &v
	}
	if v := c.QueryParam("minPrice"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minPrice"})
		}
		in.MinPrice = &x
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maxPrice"})
		}
		in.MaxPrice = &x
	}

	out, err := h.uc.Search(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Message:            "Search completed successfully",
		SearchSweetsOutput: out,
	})
}

func (h *SweetHandler) purchase(c echo.Context) error {
	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity is required"})
	}

	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.Purchase(c.Request().Context(), userID, c.Param("id"), *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, PurchaseResponse{
		Message:          "Sweet purchased successfully",
		Sweet:            s,
		PurchaseQuantity: *req.Quantity,
	})
}
