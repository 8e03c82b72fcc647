package handler

import (
	"net/http"
	"strconv"

	"minimarket/internal/config"
	"minimarket/internal/middleware"
	"minimarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StockAdjustmentRequest struct {
	Adjustment int64  `json:"adjustment"`
	Reason     string `json:"reason"`
}

type StockAdjustmentResponse struct {
	Message      string `json:"message"`
	CurrentStock int64  `json:"current_stock"`
}

// /admin/stock の管理API
type AdminStockHandler struct {
	uc *usecase.StockUsecase
}

// DI
func NewAdminStockHandler(uc *usecase.StockUsecase) *AdminStockHandler {
	return &AdminStockHandler{uc: uc}
}

func (h *AdminStockHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin/stock")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.PATCH("/products/:product_id", h.adjustStock)
	admin.GET("/history", h.history)
}

func (h *AdminStockHandler) adjustStock(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req StockAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdjustStock(c.Request().Context(), adminID, usecase.AdjustStockInput{
		ProductID:  productID,
		Adjustment: req.Adjustment,
		Reason:     req.Reason,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, StockAdjustmentResponse{
		Message:      "stock updated",
		CurrentStock: out.CurrentStock,
	})
}

func (h *AdminStockHandler) history(c echo.Context) error {
	// limit（default 50）
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	items, err := h.uc.GetStockHistory(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}
