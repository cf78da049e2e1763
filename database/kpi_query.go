// database/kpi_query.go
package database

import (
	"fmt"
)

// GetDailyKPIs возвращает дневной тренд KPI за период [from, to]
// Revenue, units, sessions и page views суммируются по фактам,
// конверсия и выручка на сессию вычисляются на лету
func GetDailyKPIs(from, to string) ([]DailyKPI, error) {
	rows, err := DB.Query(fmt.Sprintf(`
		SELECT
			DATE_FORMAT(report_date, '%%Y-%%m-%%d') as date,
			IFNULL(SUM(ordered_product_sales_usd), 0) as revenue,
			IFNULL(SUM(units_ordered), 0) as units_ordered,
			IFNULL(SUM(sessions_total), 0) as sessions,
			IFNULL(SUM(page_views_total), 0) as page_views
		FROM %s.fct_sales_traffic_daily
		WHERE report_date BETWEEN ? AND ?
		GROUP BY report_date
		ORDER BY report_date
	`, Schema), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []DailyKPI
	for rows.Next() {
		var kpi DailyKPI
		if err := rows.Scan(&kpi.Date, &kpi.Revenue, &kpi.UnitsOrdered, &kpi.Sessions, &kpi.PageViews); err != nil {
			return nil, err
		}
		kpi.ComputeDerived()
		kpis = append(kpis, kpi)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return kpis, nil
}

// GetProductKPIs возвращает KPI по товарам за период [from, to]
// Товары упорядочены по убыванию выручки; limit ограничивает размер выборки
func GetProductKPIs(from, to string, limit int) ([]ProductKPI, error) {
	rows, err := DB.Query(fmt.Sprintf(`
		SELECT
			f.child_asin,
			IFNULL(MAX(p.item_name), '') as item_name,
			IFNULL(SUM(f.ordered_product_sales_usd), 0) as revenue,
			IFNULL(SUM(f.units_ordered), 0) as units_ordered,
			IFNULL(SUM(f.sessions_total), 0) as sessions,
			IFNULL(SUM(f.page_views_total), 0) as page_views
		FROM %s.fct_sales_traffic_daily f
		LEFT JOIN %s.dim_product p ON p.asin = f.child_asin
		WHERE f.report_date BETWEEN ? AND ?
		GROUP BY f.child_asin
		ORDER BY revenue DESC
		LIMIT ?
	`, Schema, Schema), from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []ProductKPI
	for rows.Next() {
		var kpi ProductKPI
		if err := rows.Scan(&kpi.ChildASIN, &kpi.ItemName, &kpi.Revenue, &kpi.UnitsOrdered, &kpi.Sessions, &kpi.PageViews); err != nil {
			return nil, err
		}
		kpi.ComputeDerived()
		kpis = append(kpis, kpi)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return kpis, nil
}

// GetAdSpendDaily возвращает дневные рекламные показатели за период [from, to]
func GetAdSpendDaily(from, to string) ([]AdSpendKPI, error) {
	rows, err := DB.Query(fmt.Sprintf(`
		SELECT
			DATE_FORMAT(report_date, '%%Y-%%m-%%d') as date,
			IFNULL(SUM(impressions), 0) as impressions,
			IFNULL(SUM(clicks), 0) as clicks,
			IFNULL(SUM(spend_usd), 0) as spend,
			IFNULL(SUM(ad_sales_usd), 0) as ad_sales
		FROM %s.fct_ad_spend_daily
		WHERE report_date BETWEEN ? AND ?
		GROUP BY report_date
		ORDER BY report_date
	`, Schema), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []AdSpendKPI
	for rows.Next() {
		var kpi AdSpendKPI
		if err := rows.Scan(&kpi.Date, &kpi.Impressions, &kpi.Clicks, &kpi.SpendUSD, &kpi.AdSalesUSD); err != nil {
			return nil, err
		}
		kpi.ComputeDerived()
		kpis = append(kpis, kpi)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return kpis, nil
}
