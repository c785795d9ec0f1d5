package trend

import (
	"fmt"
	"math"
	"time"
)

// TrendModel описывает линейный тренд дневного спроса на билеты.
// Все коэффициенты округлены до тысячных.
type TrendModel struct {
	Slope       float64   // Покупок в день: положительный наклон означает рост спроса
	Intercept   float64   // Сдвиг
	R           float64   // Коэффициент корреляции Пирсона
	R2          float64   // Коэффициент детерминации
	PeriodStart time.Time // Начало анализируемого периода
	PeriodEnd   time.Time // Конец анализируемого периода

	points []DataPoint
}

// FitTrend строит модель тренда методом наименьших квадратов.
// Формулы:
// slope = (n*sum(x*y) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
// intercept = (sum(y) - slope*sum(x)) / n
func FitTrend(points []DataPoint) (*TrendModel, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("для построения тренда требуется минимум 2 точки, получено: %d", len(points))
	}

	minDate := points[0].Date
	maxDate := points[0].Date
	for _, p := range points {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	n := float64(len(points))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все дни совпадают, наклон тренда не определен")
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	// Коэффициент корреляции Пирсона:
	// r = (n*sum(x*y) - sum(x)*sum(y)) / sqrt[(n*sum(x^2) - (sum(x))^2) * (n*sum(y^2) - (sum(y))^2)]
	numerator := n*sumXY - sumX*sumY
	rDenominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	var r float64
	if math.Abs(rDenominator) < 1e-10 {
		r = 0 // спрос постоянен, корреляции нет
	} else {
		r = numerator / rDenominator
	}

	return &TrendModel{
		Slope:       round3(slope),
		Intercept:   round3(intercept),
		R:           round3(r),
		R2:          round3(r * r),
		PeriodStart: minDate,
		PeriodEnd:   maxDate,
		points:      points,
	}, nil
}

// Predict возвращает прогноз числа покупок для дня x
func (m *TrendModel) Predict(x float64) float64 {
	return round3(m.Slope*x + m.Intercept)
}

// ConfidenceInterval вычисляет доверительный интервал прогноза для дня x.
// Используется приближение t-статистики: 2.0 для уровня 0.95, 2.58 для
// 0.99 и 1.64 для 0.90. При двух точках остаточная дисперсия не
// определена, интервал вырождается в точку прогноза.
func (m *TrendModel) ConfidenceInterval(x, confidenceLevel float64) (lower, upper float64) {
	yPred := m.Predict(x)

	n := float64(len(m.points))
	if n <= 2 {
		return yPred, yPred
	}

	meanX := 0.0
	for _, p := range m.points {
		meanX += p.X
	}
	meanX /= n

	sumSqDevX := 0.0
	sumSqResiduals := 0.0
	for _, p := range m.points {
		predY := m.Predict(p.X)
		sumSqDevX += (p.X - meanX) * (p.X - meanX)
		sumSqResiduals += (p.Y - predY) * (p.Y - predY)
	}

	// Стандартная ошибка оценки
	standardError := math.Sqrt(sumSqResiduals / (n - 2))

	tStat := 2.0
	if confidenceLevel == 0.99 {
		tStat = 2.58
	} else if confidenceLevel == 0.90 {
		tStat = 1.64
	}

	// Ошибка прогноза включает ошибку регрессии и ошибку предсказания
	predictionStdError := standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)

	margin := tStat * predictionStdError
	return round3(yPred - margin), round3(yPred + margin)
}

// Forecast генерирует прогнозы спроса на daysAhead дней после конца
// анализируемого периода
func (m *TrendModel) Forecast(daysAhead int, confidenceLevel float64) []ForecastPoint {
	forecasts := make([]ForecastPoint, daysAhead)

	maxX := 0.0
	for _, p := range m.points {
		if p.X > maxX {
			maxX = p.X
		}
	}

	for i := 0; i < daysAhead; i++ {
		x := maxX + float64(i+1)
		lower, upper := m.ConfidenceInterval(x, confidenceLevel)

		forecasts[i] = ForecastPoint{
			Date:          m.PeriodEnd.AddDate(0, 0, i+1),
			ForecastValue: m.Predict(x),
			CILower:       lower,
			CIUpper:       upper,
		}
	}

	return forecasts
}

// round3 округляет число до тысячных (3 знака после запятой)
func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
