package estimate

import (
	"sort"
	"strconv"
	"strings"
)

type Field string

const (
	FieldWorkQuantity        Field = "work_quantity"
	FieldWorkPrice           Field = "work_price"
	FieldMaterialQuantity    Field = "material_quantity"
	FieldMaterialPrice       Field = "material_price"
	FieldMaterialConsumption Field = "material_consumption"
)

type editKey struct {
	Section  int
	Item     int
	Material int
	Field    Field
}

// EditBuffer накапливает сырой строковый ввод по адресу (секция,
// позиция, поле) и переносит его в дерево одним явным Commit. Модель
// видит только зафиксированные значения — частичный набор символов до
// неё не доходит.
type EditBuffer struct {
	pending map[editKey]string
}

func NewEditBuffer() *EditBuffer {
	return &EditBuffer{pending: make(map[editKey]string)}
}

func (b *EditBuffer) SetWorkField(section, item int, field Field, raw string) {
	b.pending[editKey{Section: section, Item: item, Material: -1, Field: field}] = raw
}

func (b *EditBuffer) SetMaterialField(section, item, material int, field Field, raw string) {
	b.pending[editKey{Section: section, Item: item, Material: material, Field: field}] = raw
}

func (b *EditBuffer) Len() int { return len(b.pending) }

// Commit применяет отложенные правки в детерминированном порядке и
// очищает буфер. Нечисловой или отрицательный ввод отбрасывается молча;
// пустая строка в количестве работы — это очистка поля, в остальных
// полях она игнорируется.
func (b *EditBuffer) Commit(t *Tree) {
	keys := make([]editKey, 0, len(b.pending))
	for k := range b.pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		if a.Section != c.Section {
			return a.Section < c.Section
		}
		if a.Item != c.Item {
			return a.Item < c.Item
		}
		if a.Material != c.Material {
			return a.Material < c.Material
		}
		return a.Field < c.Field
	})

	for _, k := range keys {
		b.apply(t, k, b.pending[k])
	}
	b.pending = make(map[editKey]string)
}

func (b *EditBuffer) apply(t *Tree, k editKey, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if k.Field == FieldWorkQuantity {
			t.ClearWorkQuantity(k.Section, k.Item)
		}
		return
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || value < 0 {
		return
	}

	switch k.Field {
	case FieldWorkQuantity:
		t.SetWorkQuantity(k.Section, k.Item, value)
	case FieldWorkPrice:
		t.SetWorkPrice(k.Section, k.Item, value)
	case FieldMaterialQuantity:
		t.SetMaterialQuantity(k.Section, k.Item, k.Material, value)
	case FieldMaterialPrice:
		t.SetMaterialPrice(k.Section, k.Item, k.Material, value)
	case FieldMaterialConsumption:
		t.SetMaterialConsumption(k.Section, k.Item, k.Material, value)
	}
}
