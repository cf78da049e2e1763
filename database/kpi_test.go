package database

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDailyKPIComputeDerived(t *testing.T) {
	// 10 заказов, выручка 500, 100 сессий
	kpi := DailyKPI{
		Date:         "2024-01-01",
		Revenue:      decimal.NewFromInt(500),
		UnitsOrdered: 10,
		Sessions:     100,
	}
	kpi.ComputeDerived()

	if !kpi.ConversionRatePct.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("конверсия = %s, ожидалось 10", kpi.ConversionRatePct)
	}
	if !kpi.RevenuePerSessionUSD.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("выручка на сессию = %s, ожидалось 5", kpi.RevenuePerSessionUSD)
	}
}

func TestDailyKPIComputeDerivedZeroSessions(t *testing.T) {
	kpi := DailyKPI{
		Revenue:      decimal.NewFromInt(500),
		UnitsOrdered: 10,
		Sessions:     0,
	}
	kpi.ComputeDerived()

	if !kpi.ConversionRatePct.IsZero() || !kpi.RevenuePerSessionUSD.IsZero() {
		t.Fatalf("при нуле сессий производные метрики должны быть нулевыми: %+v", kpi)
	}
}

func TestDailyKPIComputeDerivedRounding(t *testing.T) {
	kpi := DailyKPI{
		Revenue:      decimal.RequireFromString("100.00"),
		UnitsOrdered: 1,
		Sessions:     3,
	}
	kpi.ComputeDerived()

	if !kpi.ConversionRatePct.Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("конверсия = %s, ожидалось 33.33", kpi.ConversionRatePct)
	}
	if !kpi.RevenuePerSessionUSD.Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("выручка на сессию = %s, ожидалось 33.33", kpi.RevenuePerSessionUSD)
	}
}

func TestAdSpendKPIComputeDerived(t *testing.T) {
	kpi := AdSpendKPI{
		Impressions: 1000,
		Clicks:      25,
		SpendUSD:    decimal.NewFromInt(30),
		AdSalesUSD:  decimal.NewFromInt(120),
	}
	kpi.ComputeDerived()

	if !kpi.ACoSPct.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("ACoS = %s, ожидалось 25", kpi.ACoSPct)
	}
	if !kpi.CTRPct.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("CTR = %s, ожидалось 2.5", kpi.CTRPct)
	}
}

func TestAdSpendKPIComputeDerivedZeroDenominators(t *testing.T) {
	kpi := AdSpendKPI{
		SpendUSD: decimal.NewFromInt(30),
	}
	kpi.ComputeDerived()

	if !kpi.ACoSPct.IsZero() || !kpi.CTRPct.IsZero() {
		t.Fatalf("при нулевых знаменателях ACoS и CTR должны быть нулевыми: %+v", kpi)
	}
}
