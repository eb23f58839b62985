package estimate

import "math"

// Round2 округляет до двух знаков в момент вычисления, а не при выводе:
// сохранённые итоги должны побитово совпадать с суммой своих округлённых
// составляющих после любого цикла сохранения и загрузки.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
