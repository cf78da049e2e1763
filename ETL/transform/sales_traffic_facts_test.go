package transform

import (
	"reflect"
	"testing"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
	"github.com/shopspring/decimal"
)

func stagingRow(date string, asin string, units int, loadTS time.Time) models.SalesTrafficStagingRow {
	day, _ := time.Parse("2006-01-02", date)
	return models.SalesTrafficStagingRow{
		ReportDate:             day,
		ChildASIN:              asin,
		SessionsTotal:          100,
		UnitsOrdered:           units,
		OrderedProductSalesUSD: decimal.NewFromInt(500),
		LoadID:                 "load-1",
		LoadTS:                 loadTS,
	}
}

func TestProcessSalesTrafficFactsKeepsLastByLoadTS(t *testing.T) {
	p := NewSalesTrafficFactsProcessor(utils.NewDiscardLogger())
	base := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	rows := []models.SalesTrafficStagingRow{
		stagingRow("2024-01-01", "B000X", 3, base.Add(time.Hour)), // более поздняя загрузка
		stagingRow("2024-01-01", "B000X", 10, base),
		stagingRow("2024-01-01", "B000Y", 7, base),
	}

	facts, err := p.ProcessSalesTrafficFacts(rows)
	if err != nil {
		t.Fatalf("ProcessSalesTrafficFacts вернул ошибку: %v", err)
	}

	if len(facts) != 2 {
		t.Fatalf("ожидалось 2 факта, получено %d", len(facts))
	}
	// При конфликте ключа побеждает строка с большим load_ts
	if facts[0].ChildASIN != "B000X" || facts[0].UnitsOrdered != 3 {
		t.Fatalf("для B000X должна победить поздняя загрузка: %+v", facts[0])
	}
	if facts[1].ChildASIN != "B000Y" || facts[1].UnitsOrdered != 7 {
		t.Fatalf("факт B000Y построен неверно: %+v", facts[1])
	}
}

func TestProcessSalesTrafficFactsDeterministic(t *testing.T) {
	p := NewSalesTrafficFactsProcessor(utils.NewDiscardLogger())
	base := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	rows := []models.SalesTrafficStagingRow{
		stagingRow("2024-01-02", "B000Z", 1, base),
		stagingRow("2024-01-01", "B000Y", 2, base),
		stagingRow("2024-01-01", "B000X", 10, base),
	}

	first, err := p.ProcessSalesTrafficFacts(rows)
	if err != nil {
		t.Fatalf("первый запуск вернул ошибку: %v", err)
	}
	second, err := p.ProcessSalesTrafficFacts(rows)
	if err != nil {
		t.Fatalf("второй запуск вернул ошибку: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("повторный запуск на том же входе дал другой результат")
	}

	// Выход упорядочен по (report_date, child_asin)
	if first[0].ChildASIN != "B000X" || first[1].ChildASIN != "B000Y" || first[2].ChildASIN != "B000Z" {
		t.Fatalf("неожиданный порядок фактов: %+v", first)
	}
}

func TestProcessSalesTrafficFactsNoDerivedColumns(t *testing.T) {
	// Факт хранит только измеримые значения отчета:
	// конверсия и выручка на сессию вычисляются BI-слоем
	factType := reflect.TypeOf(models.SalesTrafficFact{})
	for i := 0; i < factType.NumField(); i++ {
		name := factType.Field(i).Name
		if name == "ConversionRate" || name == "RevenuePerSession" {
			t.Fatalf("производная метрика %s не должна храниться в факте", name)
		}
	}
}

func TestBuildDateRange(t *testing.T) {
	p := NewDateDimensionProcessor(utils.NewDiscardLogger())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // понедельник
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)   // воскресенье

	dates := p.BuildDateRange(start, end)
	if len(dates) != 7 {
		t.Fatalf("ожидалось 7 дней, получено %d", len(dates))
	}

	first := dates[0]
	if first.Year != 2024 || first.Quarter != 1 || first.Month != 1 || first.MonthName != "January" {
		t.Fatalf("компоненты даты построены неверно: %+v", first)
	}
	if first.DayName != "Monday" || first.IsWeekend {
		t.Fatalf("1 января 2024 (понедельник) не должен быть выходным: %+v", first)
	}

	last := dates[6]
	if last.DayName != "Sunday" || !last.IsWeekend {
		t.Fatalf("7 января 2024 (воскресенье) должен быть выходным: %+v", last)
	}
}
