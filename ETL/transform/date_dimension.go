package transform

import (
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// DateDimensionProcessor строит измерение дат с дневной гранулярностью
type DateDimensionProcessor struct {
	logger *utils.ETLLogger
}

// NewDateDimensionProcessor создает новый экземпляр DateDimensionProcessor
func NewDateDimensionProcessor(logger *utils.ETLLogger) *DateDimensionProcessor {
	return &DateDimensionProcessor{
		logger: logger,
	}
}

// Массивы для названий месяцев и дней недели
var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}
var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ProcessDates строит строки измерения дат, покрывающие диапазон дат всех фактов
// Факты ссылаются на dim_date по внешнему ключу, поэтому измерение
// должно быть загружено до фактов
func (p *DateDimensionProcessor) ProcessDates(salesTraffic []models.SalesTrafficFact, adSpend []models.AdSpendFact) []models.DateDimension {
	var minDate, maxDate time.Time

	observe := func(date time.Time) {
		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if maxDate.IsZero() || date.After(maxDate) {
			maxDate = date
		}
	}

	for _, fact := range salesTraffic {
		observe(fact.ReportDate)
	}
	for _, fact := range adSpend {
		observe(fact.ReportDate)
	}

	if minDate.IsZero() {
		p.logger.Debug("Фактов нет, измерение дат не обновляется")
		return nil
	}

	return p.BuildDateRange(minDate, maxDate)
}

// BuildDateRange строит записи измерения дат от startDate до endDate включительно
func (p *DateDimensionProcessor) BuildDateRange(startDate, endDate time.Time) []models.DateDimension {
	var result []models.DateDimension

	current := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)

	for !current.After(end) {
		year := current.Year()
		month := int(current.Month())
		monthName := monthNames[month-1]

		// Определяем квартал
		quarter := (month-1)/3 + 1

		// Номер недели в году (приблизительно)
		yearDay := current.YearDay()
		weekOfYear := (yearDay-1)/7 + 1

		dayOfMonth := current.Day()
		dayOfWeek := int(current.Weekday()) + 1 // 1=Sunday, 7=Saturday
		dayName := dayNames[dayOfWeek-1]

		// Выходной день (суббота или воскресенье)
		isWeekend := dayOfWeek == 1 || dayOfWeek == 7

		result = append(result, models.DateDimension{
			FullDate:   current,
			Year:       year,
			Quarter:    quarter,
			Month:      month,
			MonthName:  monthName,
			WeekOfYear: weekOfYear,
			DayOfMonth: dayOfMonth,
			DayOfWeek:  dayOfWeek,
			DayName:    dayName,
			IsWeekend:  isWeekend,
		})

		// Переходим к следующему дню
		current = current.AddDate(0, 0, 1)
	}

	p.logger.Debug("Построено %d строк измерения дат (с %s по %s)",
		len(result), startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	return result
}
