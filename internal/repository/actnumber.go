package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Номер акта: ACT-CL-<год>-<NNN> для клиентских, ACT-SP-<год>-<NNN> для
// актов специалиста. Последовательность своя у каждой тройки (тенант,
// тип, год) и никогда не переиспользуется, даже если акт отменён.

func actTypeCode(t model.ActType) string {
	if t == model.ActTypeSpecialist {
		return "SP"
	}
	return "CL"
}

func formatActNumber(t model.ActType, year, seq int) string {
	return fmt.Sprintf("ACT-%s-%d-%03d", actTypeCode(t), year, seq)
}

// trailingSeq извлекает хвостовой порядковый номер; 0 для чужих форматов.
func trailingSeq(number string) int {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0
	}
	return seq
}

// nextActNumber выбирает максимальную существующую последовательность и
// выдаёт следующий номер.
func nextActNumber(existing []string, t model.ActType, year int) string {
	maxSeq := 0
	for _, number := range existing {
		if seq := trailingSeq(number); seq > maxSeq {
			maxSeq = seq
		}
	}
	return formatActNumber(t, year, maxSeq+1)
}
