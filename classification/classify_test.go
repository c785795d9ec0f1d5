package classification

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Felipe-Otto/ClickBusPredictions/models"
)

func TestClassifyBoundaries(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		purchases int
		want      models.CategoryID
	}{
		{0, models.CategoryNew},
		{1, models.CategoryNew},
		{5, models.CategoryNew},
		{10, models.CategoryNew},        // верхняя граница Novo
		{11, models.CategoryRecurrent},  // нижняя граница Recorrente
		{50, models.CategoryRecurrent},
		{100, models.CategoryRecurrent}, // верхняя граница Recorrente
		{101, models.CategoryVIP},       // нижняя граница VIP
		{150, models.CategoryVIP},
		{100000, models.CategoryVIP},
	}

	for _, tt := range tests {
		if got := thresholds.Classify(tt.purchases); got != tt.want {
			t.Errorf("Classify(%d) = %d, ожидалось %d", tt.purchases, got, tt.want)
		}
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	thresholds := Thresholds{NewMax: 2, RecurrentMax: 4}

	tests := []struct {
		purchases int
		want      models.CategoryID
	}{
		{2, models.CategoryNew},
		{3, models.CategoryRecurrent},
		{4, models.CategoryRecurrent},
		{5, models.CategoryVIP},
	}

	for _, tt := range tests {
		if got := thresholds.Classify(tt.purchases); got != tt.want {
			t.Errorf("Classify(%d) = %d, ожидалось %d", tt.purchases, got, tt.want)
		}
	}
}

func TestBuildAssignments(t *testing.T) {
	counts := []PurchaseCount{
		{CustomerID: "C1", Purchases: 5},
		{CustomerID: "C2", Purchases: 10},
		{CustomerID: "C3", Purchases: 150},
		{CustomerID: "C5", Purchases: 42},
	}

	got := BuildAssignments(counts, DefaultThresholds())

	want := []CategoryAssignment{
		{CustomerID: "C1", CategoryID: models.CategoryNew},
		{CustomerID: "C2", CategoryID: models.CategoryNew},
		{CustomerID: "C3", CategoryID: models.CategoryVIP},
		{CustomerID: "C5", CategoryID: models.CategoryRecurrent},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildAssignments() не совпадает (-want +got):\n%s", diff)
	}
}

func TestBuildAssignmentsEmpty(t *testing.T) {
	got := BuildAssignments(nil, DefaultThresholds())
	if len(got) != 0 {
		t.Errorf("BuildAssignments(nil) = %v, ожидался пустой список", got)
	}
}
