package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 支払い証憑（レシート画像）のローカル保存。
// 保存名は <注文番号>_<uuid><拡張子> で衝突しない。
type LocalReceiptStore struct {
	dir string
}

func NewLocalReceiptStore(dir string) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalReceiptStore{dir: dir}, nil
}

func (s *LocalReceiptStore) Save(orderNumber string, ext string, src io.Reader) (string, error) {
	ext = strings.ToLower(ext)
	filename := fmt.Sprintf("%s_%s%s", orderNumber, uuid.NewString(), ext)
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return "", err
	}

	return "/uploads/receipts/" + filename, nil
}
