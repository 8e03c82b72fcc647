package config

import (
	"fmt"
	"os"
	"strconv"
)

// デフォルトのゲストユーザーID。未認証の注文はこのユーザーに帰属する。
// 実在のアカウントではなく、帰属用の番兵。GUEST_USER_IDで変更できる。
const DefaultGuestUserID int64 = 1

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT検証シークレット

	GuestUserID int64  // 未認証注文の帰属先ユーザーID
	UploadDir   string // 証憑画像の保存先ディレクトリ

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GuestUserID: DefaultGuestUserID,
		UploadDir:   os.Getenv("UPLOAD_DIR"),
		GoEnv:       os.Getenv("GO_ENV"),
	}

	if v := os.Getenv("GUEST_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return Config{}, fmt.Errorf("GUEST_USER_ID must be a positive number")
		}
		cfg.GuestUserID = id
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads/receipts"
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
