package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ProductDimension представляет запись измерения товаров (dim_product)
// Бизнес-ключ seller_sku; описательные атрибуты обновляются upsert-ом
type ProductDimension struct {
	SellerSKU          string         `json:"seller_sku"`
	ASIN               string         `json:"asin"`
	ItemName           sql.NullString `json:"item_name"`
	FulfillmentChannel sql.NullString `json:"fulfillment_channel"`
	Status             sql.NullString `json:"status"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DateDimension представляет запись измерения дат (dim_date) с дневной гранулярностью
type DateDimension struct {
	FullDate   time.Time `json:"full_date"`
	Year       int       `json:"year"`
	Quarter    int       `json:"quarter"`
	Month      int       `json:"month"`
	MonthName  string    `json:"month_name"`
	WeekOfYear int       `json:"week_of_year"`
	DayOfMonth int       `json:"day_of_month"`
	DayOfWeek  int       `json:"day_of_week"` // 1=Sunday, 7=Saturday
	DayName    string    `json:"day_name"`
	IsWeekend  bool      `json:"is_weekend"`
}

// SalesTrafficFact представляет строку фактов продаж и трафика
// Гранулярность: (report_date, child_asin)
// Производные KPI (конверсия, выручка на сессию) не хранятся:
// они вычисляются BI-слоем во время запроса
type SalesTrafficFact struct {
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

// AdSpendFact представляет строку фактов рекламных расходов
// Гранулярность: (report_date, campaign_name, advertised_asin)
type AdSpendFact struct {
	ReportDate     time.Time       `json:"report_date"`
	CampaignName   string          `json:"campaign_name"`
	AdvertisedASIN string          `json:"advertised_asin"`
	Impressions    int             `json:"impressions"`
	Clicks         int             `json:"clicks"`
	SpendUSD       decimal.Decimal `json:"spend_usd"`
	AdSalesUSD     decimal.Decimal `json:"ad_sales_usd"`
	LoadID         string          `json:"load_id"`
	LoadTS         time.Time       `json:"load_ts"`
}
