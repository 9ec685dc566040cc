package handler

import (
	"net/http"

	"sweetshop/internal/authz"
	"sweetshop/internal/config"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/middleware"
	"sweetshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// POST /api/sweets のリクエストボディ。
// priceとquantityは欠落検出のためポインタで受ける。
type SweetCreateRequest struct {
	Name        string `json:"name"`
	Price       *int64 `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Quantity    *int64 `json:"quantity"`
}

// PUT /api/sweets/:id のリクエストボディ。nilは「変更しない」。
type SweetUpdateRequest struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	Quantity    *int64  `json:"quantity"`
}

type RestockRequest struct {
	Quantity *int64 `json:"quantity"`
}

type RestockResponse struct {
	Message         string      `json:"message"`
	Sweet           model.Sweet `json:"sweet"`
	RestockQuantity int64       `json:"restockQuantity"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

// 管理者だけが使う変更系API
type AdminSweetHandler struct {
	uc *usecase.SweetUsecase
}

// DI
func NewAdminSweetHandler(uc *usecase.SweetUsecase) *AdminSweetHandler {
	return &AdminSweetHandler{uc: uc}
}

// 変更系のルートを登録
func (h *AdminSweetHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/sweets", middleware.AuthJWT(cfg))

	g.POST("", h.create, middleware.RequireOperation(authz.OpCreateSweet))
	g.PUT("/:id", h.update, middleware.RequireOperation(authz.OpUpdateSweet))
	g.DELETE("/:id", h.delete, middleware.RequireOperation(authz.OpDeleteSweet))
	g.POST("/:id/restock", h.restock, middleware.RequireOperation(authz.OpRestock))
}

func (h *AdminSweetHandler) create(c echo.Context) error {
	var req SweetCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.Create(c.Request().Context(), adminID, usecase.CreateSweetInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, SweetResponse{
		Message: "Sweet created successfully",
		Sweet:   s,
	})
}

func (h *AdminSweetHandler) update(c echo.Context) error {
	var req SweetUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.Update(c.Request().Context(), adminID, c.Param("id"), usecase.UpdateSweetInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SweetResponse{
		Message: "Sweet updated successfully",
		Sweet:   s,
	})
}

func (h *AdminSweetHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DeleteResponse{Message: "Sweet deleted successfully"})
}

func (h *AdminSweetHandler) restock(c echo.Context) error {
	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity is required"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.Restock(c.Request().Context(), adminID, c.Param("id"), *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, RestockResponse{
		Message:         "Sweet restocked successfully",
		Sweet:           s,
		RestockQuantity: *req.Quantity,
	})
}
