package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
	"github.com/golang/snappy"
)

// Archiver переносит успешно загруженные файлы отчетов в архив
// Файл сжимается snappy и удаляется из входящей директории,
// чтобы следующий запуск не загрузил его повторно
type Archiver struct {
	archiveDir string
	logger     *utils.ETLLogger
}

// NewArchiver создает новый экземпляр Archiver
func NewArchiver(archiveDir string, logger *utils.ETLLogger) *Archiver {
	return &Archiver{
		archiveDir: archiveDir,
		logger:     logger,
	}
}

// Compress сжимает содержимое файла отчета
func Compress(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// Decompress распаковывает содержимое архивного файла
func Decompress(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	return decompressed, nil
}

// ArchiveLoads архивирует все файлы, загруженные в текущем запуске
func (a *Archiver) ArchiveLoads(loads []models.RawLoad) error {
	if len(loads) == 0 {
		return nil
	}

	if err := os.MkdirAll(a.archiveDir, 0o755); err != nil {
		return fmt.Errorf("ошибка при создании архивной директории %s: %w", a.archiveDir, err)
	}

	for _, load := range loads {
		if err := a.archiveFile(load.SourcePath, load.LoadID); err != nil {
			a.logger.Error("Ошибка при архивации файла %s: %v", load.SourceFile, err)
			return fmt.Errorf("ошибка при архивации файла %s: %w", load.SourceFile, err)
		}
	}

	a.logger.Info("Архивировано файлов: %d (директория: %s)", len(loads), a.archiveDir)
	return nil
}

// archiveFile сжимает один файл в архив и удаляет оригинал
// Имя архива включает load_id: один и тот же файл может быть
// загружен повторно после ручного восстановления
func (a *Archiver) archiveFile(path, loadID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ошибка при чтении файла: %w", err)
	}

	archiveName := fmt.Sprintf("%s.%s.snappy", filepath.Base(path), loadID)
	archivePath := filepath.Join(a.archiveDir, archiveName)

	if err := os.WriteFile(archivePath, Compress(data), 0o644); err != nil {
		return fmt.Errorf("ошибка при записи архива: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("ошибка при удалении оригинала: %w", err)
	}

	a.logger.Debug("Файл %s архивирован как %s", filepath.Base(path), archiveName)
	return nil
}
