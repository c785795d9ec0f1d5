package trend

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// linePoints строит точки y = slope*x + intercept для x = 0..n-1
func linePoints(n int, slope, intercept float64) []DataPoint {
	points := make([]DataPoint, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		points[i] = DataPoint{X: x, Y: slope*x + intercept, Date: day(i)}
	}
	return points
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitTrendPerfectLine(t *testing.T) {
	model, err := FitTrend(linePoints(6, 2, 1))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	if !floatEquals(model.Slope, 2) {
		t.Errorf("Slope = %v, ожидалось 2", model.Slope)
	}
	if !floatEquals(model.Intercept, 1) {
		t.Errorf("Intercept = %v, ожидалось 1", model.Intercept)
	}
	if !floatEquals(model.R, 1) || !floatEquals(model.R2, 1) {
		t.Errorf("R = %v, R2 = %v, ожидалась 1", model.R, model.R2)
	}
	if !model.PeriodStart.Equal(day(0)) || !model.PeriodEnd.Equal(day(5)) {
		t.Errorf("период = %v..%v, ожидался %v..%v", model.PeriodStart, model.PeriodEnd, day(0), day(5))
	}
}

func TestFitTrendFallingDemand(t *testing.T) {
	model, err := FitTrend(linePoints(5, -3, 100))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	if !floatEquals(model.Slope, -3) {
		t.Errorf("Slope = %v, ожидалось -3", model.Slope)
	}
	if !floatEquals(model.R, -1) {
		t.Errorf("R = %v, ожидалось -1", model.R)
	}
	if !floatEquals(model.R2, 1) {
		t.Errorf("R2 = %v, ожидалась 1", model.R2)
	}
}

func TestFitTrendConstantDemand(t *testing.T) {
	model, err := FitTrend(linePoints(4, 0, 7))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	if !floatEquals(model.Slope, 0) {
		t.Errorf("Slope = %v, ожидался 0", model.Slope)
	}
	if !floatEquals(model.Intercept, 7) {
		t.Errorf("Intercept = %v, ожидалось 7", model.Intercept)
	}
	if !floatEquals(model.R, 0) {
		t.Errorf("R = %v, ожидался 0 при постоянном спросе", model.R)
	}
}

func TestFitTrendTooFewPoints(t *testing.T) {
	for _, n := range []int{0, 1} {
		if _, err := FitTrend(linePoints(n, 1, 1)); err == nil {
			t.Errorf("FitTrend() с %d точками не вернул ошибку", n)
		}
	}
}

func TestFitTrendIdenticalDays(t *testing.T) {
	points := []DataPoint{
		{X: 3, Y: 10, Date: day(3)},
		{X: 3, Y: 12, Date: day(3)},
	}
	if _, err := FitTrend(points); err == nil {
		t.Errorf("FitTrend() с совпадающими X не вернул ошибку")
	}
}

func TestPredict(t *testing.T) {
	model, err := FitTrend(linePoints(6, 2, 1))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	if got := model.Predict(10); !floatEquals(got, 21) {
		t.Errorf("Predict(10) = %v, ожидалось 21", got)
	}
}

func TestConfidenceIntervalPerfectFit(t *testing.T) {
	model, err := FitTrend(linePoints(6, 2, 1))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	// Нулевые остатки дают вырожденный интервал
	lower, upper := model.ConfidenceInterval(8, 0.95)
	pred := model.Predict(8)
	if !floatEquals(lower, pred) || !floatEquals(upper, pred) {
		t.Errorf("интервал [%v, %v] при нулевых остатках, ожидалась точка %v", lower, upper, pred)
	}
}

func TestConfidenceIntervalNoisyData(t *testing.T) {
	points := []DataPoint{
		{X: 0, Y: 1, Date: day(0)},
		{X: 1, Y: 3, Date: day(1)},
		{X: 2, Y: 2, Date: day(2)},
		{X: 3, Y: 5, Date: day(3)},
		{X: 4, Y: 4, Date: day(4)},
	}
	model, err := FitTrend(points)
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	for _, confidence := range []float64{0.90, 0.95, 0.99} {
		lower, upper := model.ConfidenceInterval(6, confidence)
		pred := model.Predict(6)
		if !(lower < pred && pred < upper) {
			t.Errorf("прогноз %v вне интервала [%v, %v] для уровня %v", pred, lower, upper, confidence)
		}
	}

	// Более высокий уровень доверия дает более широкий интервал
	lower90, upper90 := model.ConfidenceInterval(6, 0.90)
	lower99, upper99 := model.ConfidenceInterval(6, 0.99)
	if upper99-lower99 <= upper90-lower90 {
		t.Errorf("интервал для 0.99 (%v) не шире интервала для 0.90 (%v)", upper99-lower99, upper90-lower90)
	}
}

func TestForecast(t *testing.T) {
	model, err := FitTrend(linePoints(6, 2, 1))
	if err != nil {
		t.Fatalf("FitTrend() вернул ошибку: %v", err)
	}

	got := model.Forecast(3, 0.95)

	want := []ForecastPoint{
		{Date: day(6), ForecastValue: 13, CILower: 13, CIUpper: 13},
		{Date: day(7), ForecastValue: 15, CILower: 15, CIUpper: 15},
		{Date: day(8), ForecastValue: 17, CILower: 17, CIUpper: 17},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Forecast() не совпадает (-want +got):\n%s", diff)
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{1.23449, 1.234},
		{1.23451, 1.235},
		{2, 2},
		{-1.23449, -1.234},
	}

	for _, tt := range tests {
		if got := round3(tt.value); !floatEquals(got, tt.want) {
			t.Errorf("round3(%v) = %v, ожидалось %v", tt.value, got, tt.want)
		}
	}
}
