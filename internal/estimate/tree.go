package estimate

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Tree — редактируемая модель сметы. Каждая мутация строит новый корень,
// копируя только затронутый путь: немодифицированные секции и позиции
// разделяют прежние слайсы, так что производные представления могут
// сравнивать поддеревья по ссылке.
//
// Невалидный числовой ввод (отрицательное, NaN, бесконечность) молча
// игнорируется: дерево не меняется и ошибка не возвращается. Валидация
// для пользователя происходит на границе ввода.
type Tree struct {
	est    *model.Estimate
	prices *PriceStore
	cmp    *Comparer
}

func NewTree(est *model.Estimate, prices *PriceStore) *Tree {
	if prices == nil {
		prices = NewPriceStore()
	}
	return &Tree{est: est, prices: prices, cmp: NewComparer()}
}

func (t *Tree) Estimate() *model.Estimate { return t.est }
func (t *Tree) Prices() *PriceStore       { return t.prices }

type WorkInput struct {
	WorkID     *uuid.UUID
	Code       string
	Name       string
	Unit       string
	UnitPrice  float64
	Phase      string
	Section    string
	Subsection string
}

type MaterialInput struct {
	MaterialID  *uuid.UUID
	Code        string
	Name        string
	Unit        string
	Consumption float64
	UnitPrice   float64
	IsRequired  bool
}

// InsertWork добавляет работу с нулевым количеством в секцию её фазы,
// создавая секцию при необходимости. Материалы получают стартовое
// количество defaultQuantity × расход (то есть ноль) и авторасчёт.
// Базовая цена позиции запоминается, если для её ключа ещё нет записи.
func (t *Tree) InsertWork(work WorkInput, materials []MaterialInput) {
	phase := strings.TrimSpace(work.Phase)
	if phase == "" {
		phase = model.DefaultPhase
	}

	item := model.WorkItem{
		ID:         uuid.New(),
		WorkID:     work.WorkID,
		Code:       work.Code,
		Name:       work.Name,
		Unit:       work.Unit,
		Quantity:   0,
		UnitPrice:  work.UnitPrice,
		Total:      0,
		Phase:      phase,
		Section:    work.Section,
		Subsection: work.Subsection,
	}
	for _, m := range materials {
		qty := Round2(item.Quantity * m.Consumption)
		item.Materials = append(item.Materials, model.Material{
			ID:            uuid.New(),
			MaterialID:    m.MaterialID,
			Code:          m.Code,
			Name:          m.Name,
			Unit:          m.Unit,
			Consumption:   m.Consumption,
			AutoCalculate: true,
			Quantity:      qty,
			UnitPrice:     m.UnitPrice,
			Total:         Round2(qty * m.UnitPrice),
			IsRequired:    m.IsRequired,
		})
	}

	t.prices.Remember(ItemKey(item), item.UnitPrice)

	est := t.cloneRoot()
	si := sectionIndex(est, phase)
	if si < 0 {
		si = t.insertSection(est, model.Section{Phase: phase, Code: codePrefix(work.Code)})
	}
	sec := &est.Sections[si]
	sec.Items = append([]model.WorkItem(nil), sec.Items...)
	pos := t.cmp.FindInsertPosition(sec.Items, item)
	sec.Items = append(sec.Items, model.WorkItem{})
	copy(sec.Items[pos+1:], sec.Items[pos:])
	sec.Items[pos] = item
	sec.Subtotal = sectionSubtotal(sec.Items)
	t.est = est
}

// SetWorkQuantity пересчитывает итог работы и каскадно — количества и
// итоги всех материалов с авторасчётом. Материалы с ручным количеством
// каскадом не затрагиваются.
func (t *Tree) SetWorkQuantity(si, ii int, qty float64) {
	if !validNumber(qty) {
		return
	}
	t.mutateItem(si, ii, func(it *model.WorkItem) {
		it.Quantity = qty
		it.QuantityUnset = false
		it.Total = Round2(qty * it.UnitPrice)
		it.Materials = append([]model.Material(nil), it.Materials...)
		for i := range it.Materials {
			m := &it.Materials[i]
			if !m.AutoCalculate {
				continue
			}
			m.Quantity = Round2(qty * m.Consumption)
			m.Total = Round2(m.Quantity * m.UnitPrice)
		}
	})
}

// ClearWorkQuantity обрабатывает очистку поля количества: количество и
// итог обнуляются, автоматические материалы обнуляются вместе с работой,
// ручные сохраняют количество, но их итог пересчитывается по цене.
func (t *Tree) ClearWorkQuantity(si, ii int) {
	t.mutateItem(si, ii, func(it *model.WorkItem) {
		it.Quantity = 0
		it.QuantityUnset = true
		it.Total = 0
		it.Materials = append([]model.Material(nil), it.Materials...)
		for i := range it.Materials {
			m := &it.Materials[i]
			if m.AutoCalculate {
				m.Quantity = 0
				m.Total = 0
				continue
			}
			m.Total = Round2(m.Quantity * m.UnitPrice)
		}
	})
}

// SetWorkPrice обновляет цену и итог работы. Материалы не затрагиваются.
func (t *Tree) SetWorkPrice(si, ii int, price float64) {
	if !validNumber(price) {
		return
	}
	t.mutateItem(si, ii, func(it *model.WorkItem) {
		it.UnitPrice = price
		it.Total = Round2(it.Quantity * price)
	})
}

// SetMaterialQuantity — ручной ввод количества: материал выходит из
// авторасчёта и перестаёт реагировать на изменения количества работы.
func (t *Tree) SetMaterialQuantity(si, ii, mi int, qty float64) {
	if !validNumber(qty) {
		return
	}
	t.mutateMaterial(si, ii, mi, func(_ *model.WorkItem, m *model.Material) {
		m.AutoCalculate = false
		m.Quantity = qty
		m.Total = Round2(qty * m.UnitPrice)
	})
}

func (t *Tree) SetMaterialPrice(si, ii, mi int, price float64) {
	if !validNumber(price) {
		return
	}
	t.mutateMaterial(si, ii, mi, func(_ *model.WorkItem, m *model.Material) {
		m.UnitPrice = price
		m.Total = Round2(m.Quantity * price)
	})
}

// SetMaterialConsumption обновляет расход; при авторасчёте количество
// немедленно пересчитывается от текущего количества работы.
func (t *Tree) SetMaterialConsumption(si, ii, mi int, consumption float64) {
	if !validNumber(consumption) {
		return
	}
	t.mutateMaterial(si, ii, mi, func(it *model.WorkItem, m *model.Material) {
		m.Consumption = consumption
		if m.AutoCalculate {
			m.Quantity = Round2(it.Quantity * consumption)
			m.Total = Round2(m.Quantity * m.UnitPrice)
		}
	})
}

func (t *Tree) DeleteMaterial(si, ii, mi int) {
	t.mutateMaterial(si, ii, mi, nil)
}

// DeleteWork удаляет работу; последняя работа уносит с собой секцию —
// пустые секции не живут ни одного кадра.
func (t *Tree) DeleteWork(si, ii int) {
	if si < 0 || si >= len(t.est.Sections) {
		return
	}
	if ii < 0 || ii >= len(t.est.Sections[si].Items) {
		return
	}
	est := t.cloneRoot()
	sec := &est.Sections[si]
	if len(sec.Items) == 1 {
		est.Sections = append(est.Sections[:si], est.Sections[si+1:]...)
		t.est = est
		return
	}
	sec.Items = append(append([]model.WorkItem(nil), sec.Items[:ii]...), sec.Items[ii+1:]...)
	sec.Subtotal = sectionSubtotal(sec.Items)
	t.est = est
}

// Sort приводит каждую секцию к каноническому порядку компаратора и
// упорядочивает сами секции. Вызывается перед сохранением и отрисовкой.
func (t *Tree) Sort() {
	est := t.cloneRoot()
	for i := range est.Sections {
		sec := &est.Sections[i]
		sec.Items = append([]model.WorkItem(nil), sec.Items...)
		t.cmp.SortItems(sec.Items)
	}
	t.sortSections(est)
	t.est = est
}

func (t *Tree) cloneRoot() *model.Estimate {
	est := *t.est
	est.Sections = append([]model.Section(nil), t.est.Sections...)
	return &est
}

func (t *Tree) mutateItem(si, ii int, fn func(*model.WorkItem)) {
	if si < 0 || si >= len(t.est.Sections) {
		return
	}
	if ii < 0 || ii >= len(t.est.Sections[si].Items) {
		return
	}
	est := t.cloneRoot()
	sec := &est.Sections[si]
	sec.Items = append([]model.WorkItem(nil), sec.Items...)
	fn(&sec.Items[ii])
	sec.Subtotal = sectionSubtotal(sec.Items)
	t.est = est
}

func (t *Tree) mutateMaterial(si, ii, mi int, fn func(*model.WorkItem, *model.Material)) {
	if si < 0 || si >= len(t.est.Sections) {
		return
	}
	if ii < 0 || ii >= len(t.est.Sections[si].Items) {
		return
	}
	if mi < 0 || mi >= len(t.est.Sections[si].Items[ii].Materials) {
		return
	}
	est := t.cloneRoot()
	sec := &est.Sections[si]
	sec.Items = append([]model.WorkItem(nil), sec.Items...)
	it := &sec.Items[ii]
	if fn == nil {
		it.Materials = append(append([]model.Material(nil), it.Materials[:mi]...), it.Materials[mi+1:]...)
	} else {
		it.Materials = append([]model.Material(nil), it.Materials...)
		fn(it, &it.Materials[mi])
	}
	sec.Subtotal = sectionSubtotal(sec.Items)
	t.est = est
}

func (t *Tree) insertSection(est *model.Estimate, sec model.Section) int {
	pos := 0
	for pos < len(est.Sections) && t.sectionLess(est.Sections[pos], sec) {
		pos++
	}
	est.Sections = append(est.Sections, model.Section{})
	copy(est.Sections[pos+1:], est.Sections[pos:])
	est.Sections[pos] = sec
	return pos
}

func (t *Tree) sortSections(est *model.Estimate) {
	sections := est.Sections
	for i := 1; i < len(sections); i++ {
		for j := i; j > 0 && t.sectionLess(sections[j], sections[j-1]); j-- {
			sections[j], sections[j-1] = sections[j-1], sections[j]
		}
	}
}

func (t *Tree) sectionLess(a, b model.Section) bool {
	if c := t.cmp.compareCode(a.Code, b.Code); c != 0 {
		return c < 0
	}
	return t.cmp.compareString(a.Phase, b.Phase) < 0
}

func sectionIndex(est *model.Estimate, phase string) int {
	for i := range est.Sections {
		if est.Sections[i].Phase == phase {
			return i
		}
	}
	return -1
}

// sectionSubtotal — сумма итогов работ и их материалов. Слагаемые уже
// округлены, итог округляется ещё раз против накопленной погрешности.
func sectionSubtotal(items []model.WorkItem) float64 {
	var sum float64
	for i := range items {
		sum += items[i].Total
		for j := range items[i].Materials {
			sum += items[i].Materials[j].Total
		}
	}
	return Round2(sum)
}

func codePrefix(code string) string {
	idx := strings.IndexAny(code, "-–")
	if idx < 0 {
		return code
	}
	return code[:idx]
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
