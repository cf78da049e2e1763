package load

import (
	"database/sql"
	"fmt"
)

// EnsureWarehouseTables создает таблицы warehouse-слоя, если они не существуют
// Факты ссылаются на dim_date по внешнему ключу, поэтому ссылочная
// целостность по датам обеспечивается самим хранилищем
func EnsureWarehouseTables(db *sql.DB, schema string) error {
	createProductDim := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.dim_product (
		seller_sku VARCHAR(64) PRIMARY KEY,
		asin VARCHAR(16) NOT NULL,
		item_name TEXT NULL,
		fulfillment_channel VARCHAR(32) NULL,
		status VARCHAR(32) NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_asin (asin)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, schema)

	createDateDim := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.dim_date (
		full_date DATE PRIMARY KEY,
		year INT NOT NULL,
		quarter INT NOT NULL,
		month INT NOT NULL,
		month_name VARCHAR(16) NOT NULL,
		week_of_year INT NOT NULL,
		day_of_month INT NOT NULL,
		day_of_week INT NOT NULL,
		day_name VARCHAR(16) NOT NULL,
		is_weekend BOOLEAN NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, schema)

	createSalesTrafficFact := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.fct_sales_traffic_daily (
		report_date DATE NOT NULL,
		child_asin VARCHAR(16) NOT NULL,
		parent_asin VARCHAR(16) NULL,
		sessions_total INT NOT NULL DEFAULT 0,
		page_views_total INT NOT NULL DEFAULT 0,
		units_ordered INT NOT NULL DEFAULT 0,
		total_order_items INT NOT NULL DEFAULT 0,
		ordered_product_sales_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		unit_session_percentage DECIMAL(7,2) NOT NULL DEFAULT 0,
		load_id CHAR(36) NOT NULL,
		load_ts TIMESTAMP(6) NOT NULL,
		source_file VARCHAR(512) NOT NULL,
		PRIMARY KEY (report_date, child_asin),
		INDEX idx_child_asin (child_asin),
		CONSTRAINT fk_sales_traffic_date FOREIGN KEY (report_date) REFERENCES %s.dim_date (full_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, schema, schema)

	createAdSpendFact := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.fct_ad_spend_daily (
		report_date DATE NOT NULL,
		campaign_name VARCHAR(255) NOT NULL,
		advertised_asin VARCHAR(16) NOT NULL,
		impressions INT NOT NULL DEFAULT 0,
		clicks INT NOT NULL DEFAULT 0,
		spend_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		ad_sales_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		load_id CHAR(36) NOT NULL,
		load_ts TIMESTAMP(6) NOT NULL,
		PRIMARY KEY (report_date, campaign_name, advertised_asin),
		INDEX idx_advertised_asin (advertised_asin),
		CONSTRAINT fk_ad_spend_date FOREIGN KEY (report_date) REFERENCES %s.dim_date (full_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, schema, schema)

	tables := []struct {
		name  string
		query string
	}{
		{"dim_product", createProductDim},
		{"dim_date", createDateDim},
		{"fct_sales_traffic_daily", createSalesTrafficFact},
		{"fct_ad_spend_daily", createAdSpendFact},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("ошибка при создании таблицы %s: %w", table.name, err)
		}
	}

	return nil
}
