package staging

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	nonWordRe  = regexp.MustCompile(`[^\w]+`)
	underscore = regexp.MustCompile(`_+`)
)

// SnakeCase приводит имя колонки отчета к каноническому snake_case виду
// "Seller SKU" -> "seller_sku", "(Child) ASIN" -> "child_asin"
func SnakeCase(name string) string {
	name = strings.TrimSpace(name)
	name = nonWordRe.ReplaceAllString(name, "_")
	name = underscore.ReplaceAllString(name, "_")
	return strings.ToLower(strings.Trim(name, "_"))
}

// ColumnIndex строит отображение snake_case имени колонки в ее позицию
func ColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		name := SnakeCase(col)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// FindColumn возвращает позицию первой подходящей колонки из списка кандидатов
// Заголовки Amazon-отчетов меняются от выгрузки к выгрузке, поэтому
// бизнес-ключи ищутся по списку известных вариантов
func FindColumn(index map[string]int, candidates ...string) (int, bool) {
	for _, candidate := range candidates {
		if pos, ok := index[SnakeCase(candidate)]; ok {
			return pos, true
		}
	}
	return -1, false
}

// NormalizeText обрезает пробелы; пустое значение считается NULL
func NormalizeText(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Форматы дат, встречающиеся в выгрузках отчетов
var reportDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
}

// ParseReportDate разбирает дату отчета в одном из известных форматов
func ParseReportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range reportDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("неизвестный формат даты %q", s)
}

// ParseCount разбирает целочисленную метрику отчета
// Пустое значение трактуется как ноль, разделители тысяч отбрасываются
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое значение %q", s)
	}
	return value, nil
}

// ParseMoney разбирает денежное значение отчета в decimal
// Понимает форматы "US$1,234.56", "$12.34" и "1234.56"; пустое значение трактуется как ноль
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimPrefix(s, "US$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("некорректное денежное значение %q", s)
	}
	return value, nil
}

// ParsePercent разбирает процентную метрику отчета ("12.34%") в decimal
func ParsePercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("некорректное процентное значение %q", s)
	}
	return value, nil
}
