package staging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSnakeCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Seller SKU", "seller_sku"},
		{"seller-sku", "seller_sku"},
		{"(Child) ASIN", "child_asin"},
		{"Ordered Product Sales", "ordered_product_sales"},
		{"  Unit Session Percentage  ", "unit_session_percentage"},
		{"7 Day Total Sales", "7_day_total_sales"},
		{"asin1", "asin1"},
	}

	for _, tc := range cases {
		if got := SnakeCase(tc.in); got != tc.want {
			t.Errorf("SnakeCase(%q) = %q, ожидалось %q", tc.in, got, tc.want)
		}
	}
}

func TestFindColumn(t *testing.T) {
	index := ColumnIndex([]string{"Date", "(Child) ASIN", "Sessions - Total", "Units Ordered"})

	pos, ok := FindColumn(index, "child_asin", "asin", "asin1")
	if !ok || pos != 1 {
		t.Fatalf("колонка child_asin не найдена: pos=%d ok=%v", pos, ok)
	}

	pos, ok = FindColumn(index, "sessions_total", "sessions")
	if !ok || pos != 2 {
		t.Fatalf("колонка sessions_total не найдена: pos=%d ok=%v", pos, ok)
	}

	if _, ok = FindColumn(index, "campaign_name"); ok {
		t.Fatalf("найдена несуществующая колонка campaign_name")
	}
}

func TestNormalizeText(t *testing.T) {
	if v := NormalizeText("  B000X  "); !v.Valid || v.String != "B000X" {
		t.Fatalf("пробелы не обрезаны: %+v", v)
	}
	if v := NormalizeText("   "); v.Valid {
		t.Fatalf("пустое значение должно быть NULL: %+v", v)
	}
}

func TestParseReportDate(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-01-01", "01/01/2024", "1/1/2024", "Jan 1, 2024"} {
		got, err := ParseReportDate(in)
		if err != nil {
			t.Fatalf("ParseReportDate(%q) вернул ошибку: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseReportDate(%q) = %v, ожидалось %v", in, got, want)
		}
	}

	if _, err := ParseReportDate("31.12.2024"); err == nil {
		t.Fatalf("ожидалась ошибка для неизвестного формата даты")
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"100", 100},
		{"1,234", 1234},
		{"", 0},
		{"  42 ", 42},
	}
	for _, tc := range cases {
		got, err := ParseCount(tc.in)
		if err != nil {
			t.Fatalf("ParseCount(%q) вернул ошибку: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseCount(%q) = %d, ожидалось %d", tc.in, got, tc.want)
		}
	}

	if _, err := ParseCount("abc"); err == nil {
		t.Fatalf("ожидалась ошибка для нечислового значения")
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"US$1,234.56", "1234.56"},
		{"$12.34", "12.34"},
		{"500", "500"},
		{"", "0"},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if err != nil {
			t.Fatalf("ParseMoney(%q) вернул ошибку: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseMoney(%q) = %s, ожидалось %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseMoney("N/A"); err == nil {
		t.Fatalf("ожидалась ошибка для нечислового значения")
	}
}

func TestParsePercent(t *testing.T) {
	got, err := ParsePercent("12.34%")
	if err != nil {
		t.Fatalf("ParsePercent вернул ошибку: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("ParsePercent(\"12.34%%\") = %s, ожидалось 12.34", got)
	}

	got, err = ParsePercent("")
	if err != nil || !got.IsZero() {
		t.Fatalf("пустой процент должен быть нулем: %s, %v", got, err)
	}
}
