package estimate

import (
	"github.com/nurpe/smeta-acts/internal/model"
)

// PriceStore хранит цены работ, какими они были до первого применения
// процентного коэффициента. Заполняется лениво: при первом применении
// коэффициента к ключу и при вставке новой работы в дерево. Никогда не
// очищается неявно — пустым начинает только свежая смета.
type PriceStore struct {
	baseline map[string]float64
}

func NewPriceStore() *PriceStore {
	return &PriceStore{baseline: make(map[string]float64)}
}

// ItemKey — стабильный логический ключ позиции: ссылка на справочник,
// если есть, иначе код плюс наименование.
func ItemKey(it model.WorkItem) string {
	if it.WorkID != nil {
		return it.WorkID.String()
	}
	return it.Code + "|" + it.Name
}

// Remember записывает базовую цену, только если ключ ещё не известен.
func (s *PriceStore) Remember(key string, price float64) {
	if _, ok := s.baseline[key]; !ok {
		s.baseline[key] = price
	}
}

func (s *PriceStore) Baseline(key string) (float64, bool) {
	price, ok := s.baseline[key]
	return price, ok
}

func (s *PriceStore) Len() int { return len(s.baseline) }

// Snapshot отдаёт копию для сохранения на границе персистентности.
func (s *PriceStore) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.baseline))
	for k, v := range s.baseline {
		out[k] = v
	}
	return out
}

func RestorePriceStore(baseline map[string]float64) *PriceStore {
	s := NewPriceStore()
	for k, v := range baseline {
		s.baseline[k] = v
	}
	return s
}

// ApplyCoefficient применяет процентную надбавку или скидку к ценам всех
// работ. Новая цена всегда считается от запомненной базовой, поэтому
// повторные применения не накапливаются: после +20% и -10% цена равна
// базовая × 0.90. У позиции без базовой цены текущая цена записывается
// как базовая на лету — это штатное «первое применение», не ошибка.
// Материалы не затрагиваются: коэффициент относится только к работам,
// материалы проходят по себестоимости.
func (t *Tree) ApplyCoefficient(percent float64) {
	multiplier := 1 + percent/100
	est := t.cloneRoot()
	for si := range est.Sections {
		sec := &est.Sections[si]
		sec.Items = append([]model.WorkItem(nil), sec.Items...)
		for ii := range sec.Items {
			it := &sec.Items[ii]
			key := ItemKey(*it)
			t.prices.Remember(key, it.UnitPrice)
			base, _ := t.prices.Baseline(key)
			it.UnitPrice = Round2(base * multiplier)
			it.Total = Round2(it.Quantity * it.UnitPrice)
		}
		sec.Subtotal = sectionSubtotal(sec.Items)
	}
	t.est = est
}

// ResetPrices возвращает цены работ к базовым. Позиции, для которых
// базовая цена не записана, остаются как есть.
func (t *Tree) ResetPrices() {
	est := t.cloneRoot()
	for si := range est.Sections {
		sec := &est.Sections[si]
		sec.Items = append([]model.WorkItem(nil), sec.Items...)
		for ii := range sec.Items {
			it := &sec.Items[ii]
			base, ok := t.prices.Baseline(ItemKey(*it))
			if !ok {
				continue
			}
			it.UnitPrice = base
			it.Total = Round2(it.Quantity * base)
		}
		sec.Subtotal = sectionSubtotal(sec.Items)
	}
	t.est = est
}
