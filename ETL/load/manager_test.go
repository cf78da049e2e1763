package load

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LilVoxy/seller_analytics/ETL/models"
)

func salesFact(asin string) models.SalesTrafficFact {
	return models.SalesTrafficFact{ChildASIN: asin}
}

func TestCollectFactASINs(t *testing.T) {
	facts := []models.SalesTrafficFact{
		salesFact("B000Y"),
		salesFact("B000X"),
		salesFact("B000Y"), // дубликат
		salesFact("B000X"),
	}

	asins := collectFactASINs(facts)
	if len(asins) != 2 {
		t.Fatalf("ожидалось 2 уникальных ASIN, получено %d: %v", len(asins), asins)
	}
	if asins[0] != "B000X" || asins[1] != "B000Y" {
		t.Fatalf("ASIN должны быть отсортированы: %v", asins)
	}
}

func TestCollectFactASINsEmpty(t *testing.T) {
	if asins := collectFactASINs(nil); len(asins) != 0 {
		t.Fatalf("для пустого батча ожидался пустой список, получено %v", asins)
	}
}

func TestMissingASINsAllPresent(t *testing.T) {
	known := map[string]bool{"B000X": true, "B000Y": true}

	missing := missingASINs([]string{"B000X", "B000Y"}, known)
	if len(missing) != 0 {
		t.Fatalf("все ASIN известны, но помечены отсутствующими: %v", missing)
	}
}

func TestMissingASINsDetectsAbsent(t *testing.T) {
	known := map[string]bool{"B000X": true}

	missing := missingASINs([]string{"B000X", "B000Y", "B000Z"}, known)
	if len(missing) != 2 {
		t.Fatalf("ожидалось 2 отсутствующих ASIN, получено %d: %v", len(missing), missing)
	}
	if missing[0] != "B000Y" || missing[1] != "B000Z" {
		t.Fatalf("отсутствующие ASIN определены неверно: %v", missing)
	}
}

func TestMissingASINsErrorPreviewTruncation(t *testing.T) {
	var missing []string
	for i := 0; i < 15; i++ {
		missing = append(missing, fmt.Sprintf("B%04d", i))
	}

	err := missingASINsError(missing)
	if err == nil {
		t.Fatalf("ожидалась ошибка для непустого списка отсутствующих ASIN")
	}

	msg := err.Error()
	// Счетчик учитывает весь список, а не только показанную часть
	if !strings.Contains(msg, "15 ASIN") {
		t.Fatalf("в сообщении должен быть полный счетчик 15: %s", msg)
	}
	if !strings.Contains(msg, "B0009") {
		t.Fatalf("десятый ASIN должен попасть в сообщение: %s", msg)
	}
	if strings.Contains(msg, "B0010") {
		t.Fatalf("в сообщение должны попасть только первые 10 ASIN: %s", msg)
	}
}
