package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

func TestCompressDecompressRoundtrip(t *testing.T) {
	original := []byte("Date\t(Child) ASIN\tUnits Ordered\n2024-01-01\tB000X\t10\n")

	compressed := Compress(original)
	restored, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress вернул ошибку: %v", err)
	}
	if !bytes.Equal(original, restored) {
		t.Fatalf("данные после распаковки не совпадают с оригиналом")
	}
}

func TestArchiveLoadsMovesFile(t *testing.T) {
	inbox := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archive")

	source := filepath.Join(inbox, "report.txt")
	content := []byte("a\tb\n1\t2\n")
	if err := os.WriteFile(source, content, 0o644); err != nil {
		t.Fatalf("не удалось записать исходный файл: %v", err)
	}

	archiver := NewArchiver(archiveDir, utils.NewDiscardLogger())
	loads := []models.RawLoad{{
		LoadID:     "11111111-2222-3333-4444-555555555555",
		LoadTS:     time.Now().UTC(),
		SourceFile: "report.txt",
		SourcePath: source,
	}}

	if err := archiver.ArchiveLoads(loads); err != nil {
		t.Fatalf("ArchiveLoads вернул ошибку: %v", err)
	}

	// Оригинал удален из входящей директории
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("оригинальный файл не удален: %v", err)
	}

	// Архив существует и распаковывается в исходное содержимое
	archivePath := filepath.Join(archiveDir, "report.txt.11111111-2222-3333-4444-555555555555.snappy")
	compressed, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("архивный файл не найден: %v", err)
	}
	restored, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("архив не распаковывается: %v", err)
	}
	if !bytes.Equal(content, restored) {
		t.Fatalf("содержимое архива не совпадает с оригиналом")
	}
}
