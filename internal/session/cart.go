package session

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/mmeshcher/astrostore/internal/model"
)

// MinQuantity — минимальное количество, которое можно добавить в корзину.
const MinQuantity = 1

// CartLine описывает одну позицию корзины.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Totals содержит итоги корзины, рассчитанные по актуальным ценам каталога.
type Totals struct {
	Subtotal model.Money `json:"subtotal"`
	Tax      model.Money `json:"tax"`
	Total    model.Money `json:"total"`
	// Missing перечисляет позиции, которых нет в каталоге; они не входят в итог.
	Missing []string `json:"missing,omitempty"`
}

// Cart хранит количество по идентификатору товара. На каждый товар приходится не больше одной позиции.
type Cart struct {
	items map[string]int
}

// NewCart создаёт пустую корзину.
func NewCart() *Cart {
	return &Cart{items: make(map[string]int)}
}

// AddItem добавляет товар или увеличивает количество существующей позиции.
// Количество меньше MinQuantity игнорируется, результат сообщает, изменилась ли корзина.
func (c *Cart) AddItem(productID string, quantity int) bool {
	if productID == "" || quantity < MinQuantity {
		return false
	}
	c.items[productID] += quantity
	return true
}

// RemoveItem удаляет позицию, если она есть.
func (c *Cart) RemoveItem(productID string) bool {
	if _, ok := c.items[productID]; !ok {
		return false
	}
	delete(c.items, productID)
	return true
}

// SetQuantity перезаписывает количество; неположительное значение удаляет позицию.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}
	if productID == "" || c.items[productID] == quantity {
		return false
	}
	c.items[productID] = quantity
	return true
}

// Quantity возвращает количество товара в корзине.
func (c *Cart) Quantity(productID string) int {
	return c.items[productID]
}

// Lines возвращает позиции, отсортированные по идентификатору товара.
func (c *Cart) Lines() []CartLine {
	res := make([]CartLine, 0, len(c.items))
	for id, q := range c.items {
		res = append(res, CartLine{ProductID: id, Quantity: q})
	}
	slices.SortFunc(res, func(a, b CartLine) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return res
}

// Count возвращает суммарное количество товаров.
func (c *Cart) Count() int {
	n := 0
	for _, q := range c.items {
		n += q
	}
	return n
}

// Len возвращает число позиций.
func (c *Cart) Len() int {
	return len(c.items)
}

// Clear очищает корзину.
func (c *Cart) Clear() {
	clear(c.items)
}

// ComputeTotals рассчитывает подытог, налог и итог по ценам каталога.
func (c *Cart) ComputeTotals(prices map[string]model.Money, taxRate float64) Totals {
	var t Totals
	for _, line := range c.Lines() {
		price, ok := prices[line.ProductID]
		if !ok {
			t.Missing = append(t.Missing, line.ProductID)
			continue
		}
		t.Subtotal += price * model.Money(line.Quantity)
	}
	t.Tax = t.Subtotal.MulRate(taxRate)
	t.Total = t.Subtotal + t.Tax
	return t
}

// MarshalJSON сериализует корзину как отображение идентификатора в количество.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.items)
}

// UnmarshalJSON восстанавливает корзину, отбрасывая позиции с некорректным количеством.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items map[string]int
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = make(map[string]int, len(items))
	for id, q := range items {
		if id != "" && q >= MinQuantity {
			c.items[id] = q
		}
	}
	return nil
}
