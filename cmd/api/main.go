package main

import (
	"log"

	"minimarket/internal/config"
	"minimarket/internal/domain/model"
	"minimarket/internal/handler"
	"minimarket/internal/infra/db"
	infraRepo "minimarket/internal/infra/repository"
	"minimarket/internal/infra/upload"
	"minimarket/internal/server"
	"minimarket/internal/usecase"

	"github.com/joho/godotenv"
)

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
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//証憑画像の保存先
	receiptStore, err := upload.NewLocalReceiptStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, receiptStore, cfg.GuestUserID)
	stockUC := usecase.NewStockUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	orderH := handler.NewOrderHandler(orderUC)
	adminOrderH := handler.NewAdminOrderHandler(adminOrderUC)
	adminStockH := handler.NewAdminStockHandler(stockUC)
	adminAuditH := handler.NewAdminAuditHandler(auditUC)

	//Server起動
	e := server.New(cfg, orderH, adminOrderH, adminStockH, adminAuditH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
