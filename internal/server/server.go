package server

import (
	"minimarket/internal/config"
	"minimarket/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はルート登録済みのechoサーバーを組み立てる。
func New(
	cfg config.Config,
	orderH *handler.OrderHandler,
	adminOrderH *handler.AdminOrderHandler,
	adminStockH *handler.AdminStockHandler,
	adminAuditH *handler.AdminAuditHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	orderH.RegisterRoutes(e, cfg)
	adminOrderH.RegisterRoutes(e, cfg)
	adminStockH.RegisterRoutes(e, cfg)
	adminAuditH.RegisterRoutes(e, cfg)

	//保存した証憑画像の配信
	e.Static("/uploads/receipts", cfg.UploadDir)

	return e
}
