package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogStagingRow представляет очищенную строку снимка каталога (SKU/ASIN)
type CatalogStagingRow struct {
	SellerSKU          string         `json:"seller_sku"`
	ASIN               string         `json:"asin"`
	ItemName           sql.NullString `json:"item_name"`
	FulfillmentChannel sql.NullString `json:"fulfillment_channel"`
	Status             sql.NullString `json:"status"`
	LoadID             string         `json:"load_id"`
	LoadTS             time.Time      `json:"load_ts"`
	SourceFile         string         `json:"source_file"`
}

// SalesTrafficStagingRow представляет очищенную строку отчета
// о продажах и трафике по дочернему ASIN за день
type SalesTrafficStagingRow struct {
	ReportDate             time.Time       `json:"report_date"`
	ChildASIN              string          `json:"child_asin"`
	ParentASIN             sql.NullString  `json:"parent_asin"`
	SessionsTotal          int             `json:"sessions_total"`
	PageViewsTotal         int             `json:"page_views_total"`
	UnitsOrdered           int             `json:"units_ordered"`
	TotalOrderItems        int             `json:"total_order_items"`
	OrderedProductSalesUSD decimal.Decimal `json:"ordered_product_sales_usd"`
	UnitSessionPercentage  decimal.Decimal `json:"unit_session_percentage"`
	LoadID                 string          `json:"load_id"`
	LoadTS                 time.Time       `json:"load_ts"`
	SourceFile             string          `json:"source_file"`
}

// AdSpendStagingRow представляет очищенную строку рекламного отчета
// (Sponsored Products) за день
type AdSpendStagingRow struct {
	ReportDate     time.Time       `json:"report_date"`
	CampaignName   string          `json:"campaign_name"`
	AdvertisedASIN string          `json:"advertised_asin"`
	Impressions    int             `json:"impressions"`
	Clicks         int             `json:"clicks"`
	SpendUSD       decimal.Decimal `json:"spend_usd"`
	AdSalesUSD     decimal.Decimal `json:"ad_sales_usd"`
	LoadID         string          `json:"load_id"`
	LoadTS         time.Time       `json:"load_ts"`
	SourceFile     string          `json:"source_file"`
}

// StagedData содержит все подготовленные staging-данные одного запуска ETL
type StagedData struct {
	Catalog      []CatalogStagingRow      `json:"catalog"`
	SalesTraffic []SalesTrafficStagingRow `json:"sales_traffic"`
	AdSpend      []AdSpendStagingRow      `json:"ad_spend"`
}

// TotalRows возвращает общее количество подготовленных строк staging
func (d *StagedData) TotalRows() int {
	return len(d.Catalog) + len(d.SalesTraffic) + len(d.AdSpend)
}
