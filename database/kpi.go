// database/kpi.go
package database

import (
	"github.com/shopspring/decimal"
)

// DailyKPI представляет агрегированные показатели одного дня
// Производные метрики вычисляются из сохраненных значений фактов,
// а не из повторно разобранных сырых данных
type DailyKPI struct {
	Date                 string          `json:"date"`
	Revenue              decimal.Decimal `json:"revenue"`
	UnitsOrdered         int             `json:"unitsOrdered"`
	Sessions             int             `json:"sessions"`
	PageViews            int             `json:"pageViews"`
	ConversionRatePct    decimal.Decimal `json:"conversionRatePct"`
	RevenuePerSessionUSD decimal.Decimal `json:"revenuePerSessionUsd"`
}

// ProductKPI представляет показатели одного товара за период
type ProductKPI struct {
	ChildASIN            string          `json:"childAsin"`
	ItemName             string          `json:"itemName,omitempty"`
	Revenue              decimal.Decimal `json:"revenue"`
	UnitsOrdered         int             `json:"unitsOrdered"`
	Sessions             int             `json:"sessions"`
	PageViews            int             `json:"pageViews"`
	ConversionRatePct    decimal.Decimal `json:"conversionRatePct"`
	RevenuePerSessionUSD decimal.Decimal `json:"revenuePerSessionUsd"`
}

// AdSpendKPI представляет рекламные показатели одного дня
type AdSpendKPI struct {
	Date        string          `json:"date"`
	Impressions int             `json:"impressions"`
	Clicks      int             `json:"clicks"`
	SpendUSD    decimal.Decimal `json:"spendUsd"`
	AdSalesUSD  decimal.Decimal `json:"adSalesUsd"`
	ACoSPct     decimal.Decimal `json:"acosPct"`
	CTRPct      decimal.Decimal `json:"ctrPct"`
}

var hundred = decimal.NewFromInt(100)

// ComputeDerived вычисляет конверсию и выручку на сессию
// При нуле сессий производные метрики равны нулю
func (k *DailyKPI) ComputeDerived() {
	k.ConversionRatePct, k.RevenuePerSessionUSD = deriveSessionMetrics(k.UnitsOrdered, k.Sessions, k.Revenue)
}

// ComputeDerived вычисляет конверсию и выручку на сессию товара
func (k *ProductKPI) ComputeDerived() {
	k.ConversionRatePct, k.RevenuePerSessionUSD = deriveSessionMetrics(k.UnitsOrdered, k.Sessions, k.Revenue)
}

// ComputeDerived вычисляет ACoS и CTR
// При нулевых продажах или показах соответствующая метрика равна нулю
func (k *AdSpendKPI) ComputeDerived() {
	if k.AdSalesUSD.IsPositive() {
		k.ACoSPct = k.SpendUSD.Div(k.AdSalesUSD).Mul(hundred).Round(2)
	} else {
		k.ACoSPct = decimal.Zero
	}

	if k.Impressions > 0 {
		k.CTRPct = decimal.NewFromInt(int64(k.Clicks)).
			Div(decimal.NewFromInt(int64(k.Impressions))).
			Mul(hundred).Round(2)
	} else {
		k.CTRPct = decimal.Zero
	}
}

// deriveSessionMetrics вычисляет пару (конверсия %, выручка на сессию)
func deriveSessionMetrics(units, sessions int, revenue decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if sessions <= 0 {
		return decimal.Zero, decimal.Zero
	}

	sessionsDec := decimal.NewFromInt(int64(sessions))
	conversion := decimal.NewFromInt(int64(units)).Div(sessionsDec).Mul(hundred).Round(2)
	revenuePerSession := revenue.Div(sessionsDec).Round(2)
	return conversion, revenuePerSession
}
