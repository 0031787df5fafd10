package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// UploadService определяет интерфейс сохранения загруженных изображений.
type UploadService interface {
	// SaveImage сохраняет файл под безопасным именем и возвращает публичный путь.
	SaveImage(file io.Reader, originalName string) (string, error)
}

type uploadService struct {
	log *slog.Logger
	dir string
	now func() time.Time // подменяется в тестах
}

func NewUploadService(log *slog.Logger, dir string) UploadService {
	return &uploadService{
		log: log,
		dir: dir,
		now: time.Now,
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// buildFileName собирает имя файла: базовое имя в нижнем регистре с пробелами,
// схлопнутыми в дефисы, плюс текущее время в миллисекундах и исходное расширение.
// Миллисекундный суффикс разводит одновременные загрузки одноименных файлов -
// коллизия в пределах одной миллисекунды остается принятым остаточным риском.
func buildFileName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	slug := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(base)), "-")
	return fmt.Sprintf("%s-%d%s", slug, now.UnixMilli(), ext)
}

// SaveImage сохраняет файл в публичной директории загрузок.
// Тип и размер файла не проверяются: эндпоинт доступен только администратору.
func (s *uploadService) SaveImage(file io.Reader, originalName string) (string, error) {
	const op = "service.UploadService.SaveImage"

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: failed to create upload dir: %w", op, err)
	}

	name := buildFileName(originalName, s.now())
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("%s: failed to create file: %w", op, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("%s: failed to write file: %w", op, err)
	}

	s.log.Info("image uploaded", slog.String("op", op), slog.String("name", name))
	return "/uploads/" + name, nil
}
