package load

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки данных в warehouse-слой
type LoadManager struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger, schema string) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		schema: schema,
		loader: NewWarehouseLoader(db, logger, schema),
	}
}

// Load выполняет фазу загрузки данных ETL-процесса
// Измерения загружаются до фактов: факты ссылаются на даты по внешнему ключу,
// а ссылки фактов на товары проверяются явно перед загрузкой
func (m *LoadManager) Load(transformedData *models.TransformedData) error {
	startTime := time.Now()
	m.logger.LogLoadStart()

	// 1. Загружаем измерение товаров
	if len(transformedData.Products) > 0 {
		m.logger.Info("Загрузка измерения товаров...")
		if err := m.loader.LoadProductDimension(transformedData.Products); err != nil {
			m.logger.Error("Ошибка при загрузке измерения товаров: %v", err)
			return fmt.Errorf("ошибка при загрузке измерения товаров: %w", err)
		}
	}

	// 2. Загружаем измерение дат
	if len(transformedData.Dates) > 0 {
		m.logger.Info("Загрузка измерения дат...")
		if err := m.loader.LoadDateDimension(transformedData.Dates); err != nil {
			m.logger.Error("Ошибка при загрузке измерения дат: %v", err)
			return fmt.Errorf("ошибка при загрузке измерения дат: %w", err)
		}
	}

	// 3. Проверяем ссылочную целостность фактов по товарам
	if err := m.checkProductReferences(transformedData.SalesTraffic); err != nil {
		m.logger.Error("Проверка ссылочной целостности не пройдена: %v", err)
		return fmt.Errorf("проверка ссылочной целостности не пройдена: %w", err)
	}

	// 4. Загружаем факты продаж и трафика
	if len(transformedData.SalesTraffic) > 0 {
		m.logger.Info("Загрузка фактов продаж и трафика...")
		if err := m.loader.LoadSalesTrafficFacts(transformedData.SalesTraffic); err != nil {
			m.logger.Error("Ошибка при загрузке фактов продаж: %v", err)
			return fmt.Errorf("ошибка при загрузке фактов продаж: %w", err)
		}
	}

	// 5. Загружаем факты рекламных расходов
	if len(transformedData.AdSpend) > 0 {
		m.logger.Info("Загрузка фактов рекламных расходов...")
		if err := m.loader.LoadAdSpendFacts(transformedData.AdSpend); err != nil {
			m.logger.Error("Ошибка при загрузке фактов рекламы: %v", err)
			return fmt.Errorf("ошибка при загрузке фактов рекламы: %w", err)
		}
	}

	m.logger.LogLoadComplete(transformedData.DimensionRows(), transformedData.FactRows(), time.Since(startTime))

	return nil
}

// checkProductReferences проверяет, что каждый ASIN фактов продаж
// присутствует в измерении товаров
// Факт, ссылающийся на отсутствующий товар, блокирует загрузку до тех пор,
// пока каталог с этим товаром не будет загружен
func (m *LoadManager) checkProductReferences(facts []models.SalesTrafficFact) error {
	asins := collectFactASINs(facts)
	if len(asins) == 0 {
		return nil
	}

	// Строим IN-список вручную под плейсхолдеры
	args := make([]interface{}, len(asins))
	placeholders := make([]string, len(asins))
	for i, asin := range asins {
		args[i] = asin
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("SELECT DISTINCT asin FROM %s.dim_product WHERE asin IN (%s)",
		m.schema, strings.Join(placeholders, ","))

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("ошибка при проверке ASIN в dim_product: %w", err)
	}
	defer rows.Close()

	known := make(map[string]bool, len(asins))
	for rows.Next() {
		var asin string
		if err := rows.Scan(&asin); err != nil {
			return fmt.Errorf("ошибка при обработке ASIN из dim_product: %w", err)
		}
		known[asin] = true
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("ошибка после итерации по dim_product: %w", err)
	}

	if missing := missingASINs(asins, known); len(missing) > 0 {
		return missingASINsError(missing)
	}

	return nil
}

// collectFactASINs возвращает уникальные ASIN фактов продаж в отсортированном порядке
func collectFactASINs(facts []models.SalesTrafficFact) []string {
	asinSet := make(map[string]bool, len(facts))
	for _, fact := range facts {
		asinSet[fact.ChildASIN] = true
	}

	asins := make([]string, 0, len(asinSet))
	for asin := range asinSet {
		asins = append(asins, asin)
	}
	sort.Strings(asins)

	return asins
}

// missingASINs возвращает ASIN, отсутствующие в известном наборе измерения товаров
func missingASINs(asins []string, known map[string]bool) []string {
	var missing []string
	for _, asin := range asins {
		if !known[asin] {
			missing = append(missing, asin)
		}
	}
	return missing
}

// missingASINsError строит ошибку по списку отсутствующих ASIN
// В сообщение попадают первые несколько значений, чтобы не раздувать лог,
// но счетчик учитывает весь список
func missingASINsError(missing []string) error {
	preview := missing
	if len(preview) > 10 {
		preview = preview[:10]
	}
	return fmt.Errorf("в dim_product отсутствуют %d ASIN из фактов (например: %s), загрузите актуальный снимок каталога",
		len(missing), strings.Join(preview, ", "))
}
