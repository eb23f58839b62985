package estimate

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Comparer задаёт канонический порядок работ: фаза, затем код, затем
// раздел и подраздел. Строки сравниваются русской коллацией, коды —
// числовым сравнением префикса и хвоста вокруг дефиса, чтобы "2-20"
// стоял раньше "2-100", а "10-5" — после обоих.
//
// Коллатор не потокобезопасен, поэтому каждый Tree держит свой
// экземпляр вместо общего пакетного.
type Comparer struct {
	col *collate.Collator
}

func NewComparer() *Comparer {
	return &Comparer{col: collate.New(language.Russian)}
}

func (c *Comparer) CompareItems(a, b model.WorkItem) int {
	if r := c.compareString(a.Phase, b.Phase); r != 0 {
		return r
	}
	if r := c.compareCode(a.Code, b.Code); r != 0 {
		return r
	}
	if r := c.compareString(a.Section, b.Section); r != 0 {
		return r
	}
	return c.compareString(a.Subsection, b.Subsection)
}

// SortItems — устойчивая сортировка каноническим порядком.
func (c *Comparer) SortItems(items []model.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareItems(items[i], items[j]) < 0
	})
}

// FindInsertPosition возвращает крайний левый индекс i, для которого
// items[i] >= item: позиция вставки, сохраняющая отсортированность.
func (c *Comparer) FindInsertPosition(items []model.WorkItem, item model.WorkItem) int {
	return sort.Search(len(items), func(i int) bool {
		return c.CompareItems(items[i], item) >= 0
	})
}

func (c *Comparer) compareString(a, b string) int {
	if a == b {
		return 0
	}
	return c.col.CompareString(a, b)
}

// compareCode разбивает код по первому дефису и сравнивает префикс, а
// затем хвост как числа. Если какая-то сторона не число, обе стороны
// сравниваются коллацией целиком.
func (c *Comparer) compareCode(a, b string) int {
	if a == b {
		return 0
	}
	aPrefix, aRest := splitCode(a)
	bPrefix, bRest := splitCode(b)

	aNum, aOK := parseCodeNumber(aPrefix)
	bNum, bOK := parseCodeNumber(bPrefix)
	if !aOK || !bOK {
		return c.compareString(a, b)
	}
	if aNum != bNum {
		return compareFloat(aNum, bNum)
	}

	aRestNum, aRestOK := parseCodeNumber(aRest)
	bRestNum, bRestOK := parseCodeNumber(bRest)
	if aRestOK && bRestOK {
		return compareFloat(aRestNum, bRestNum)
	}
	return c.compareString(aRest, bRest)
}

func splitCode(code string) (string, string) {
	idx := strings.IndexAny(code, "-–")
	if idx < 0 {
		return code, ""
	}
	_, size := utf8.DecodeRuneInString(code[idx:])
	return code[:idx], code[idx+size:]
}

func parseCodeNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
