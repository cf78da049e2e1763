package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name string, data []byte, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("не удалось записать файл %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("не удалось изменить время файла %s: %v", name, err)
	}
	return path
}

func TestLatestReportFile(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeFile(t, dir, "old.txt", []byte("a\tb\n1\t2\n"), base)
	latest := writeFile(t, dir, "new.txt", []byte("a\tb\n3\t4\n"), base.Add(30*time.Minute))
	writeFile(t, dir, "notes.md", []byte("не отчет"), base.Add(45*time.Minute))

	got, err := LatestReportFile(dir)
	if err != nil {
		t.Fatalf("LatestReportFile вернул ошибку: %v", err)
	}
	if got != latest {
		t.Fatalf("ожидался файл %s, получен %s", latest, got)
	}
}

func TestLatestReportFileEmptyDir(t *testing.T) {
	dir := t.TempDir()

	_, err := LatestReportFile(dir)
	if !errors.Is(err, ErrNoReportFiles) {
		t.Fatalf("ожидалась ошибка ErrNoReportFiles, получена: %v", err)
	}
}

func TestLatestReportFileMissingDir(t *testing.T) {
	_, err := LatestReportFile(filepath.Join(t.TempDir(), "нет-такой"))
	if !errors.Is(err, ErrNoReportFiles) {
		t.Fatalf("ожидалась ошибка ErrNoReportFiles, получена: %v", err)
	}
}

func TestReadReportFileTabWithBOM(t *testing.T) {
	dir := t.TempDir()
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("seller-sku\tasin1\nSKU-1\tB000X\nSKU-2\tB000Y\n")...)
	path := writeFile(t, dir, "listings.txt", data, time.Now())

	header, rows, err := ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile вернул ошибку: %v", err)
	}
	if len(header) != 2 || header[0] != "seller-sku" || header[1] != "asin1" {
		t.Fatalf("BOM не отброшен, заголовок: %v", header)
	}
	if len(rows) != 2 || rows[1][1] != "B000Y" {
		t.Fatalf("неожиданные строки данных: %v", rows)
	}
}

func TestReadReportFileCSVQuotedComma(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv",
		[]byte("Date,(Child) ASIN,Ordered Product Sales\n2024-01-01,B000X,\"US$1,234.56\"\n"), time.Now())

	header, rows, err := ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile вернул ошибку: %v", err)
	}
	if len(header) != 3 {
		t.Fatalf("неожиданный заголовок: %v", header)
	}
	if rows[0][2] != "US$1,234.56" {
		t.Fatalf("значение с запятой в кавычках разобрано неверно: %q", rows[0][2])
	}
}

func TestReadReportFileRaggedRowFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.txt", []byte("a\tb\tc\n1\t2\t3\n4\t5\n"), time.Now())

	if _, _, err := ReadReportFile(path); err == nil {
		t.Fatalf("ожидалась ошибка для файла с неполной строкой")
	}
}

func TestReadReportFileEmptyFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", []byte(""), time.Now())

	if _, _, err := ReadReportFile(path); err == nil {
		t.Fatalf("ожидалась ошибка для пустого файла")
	}
}
