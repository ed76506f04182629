package garagetest

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/internal/api"
)

type lineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// store holds the stub's mutable state. One cart is kept per server
// instance; tests that need isolation start a fresh server.
type store struct {
	mu sync.Mutex

	cart        map[string]*lineItem
	repairForms map[string]decimal.Decimal
	vehicles    map[string][]api.Vehicle
	comments    []api.AddCommentRequest
	flashes     []string
	accounts    map[string]account
}

type account struct {
	PasswordHash string
	CustomerID   string
	FullName     string
}

func newStore() *store {
	return &store{
		cart:        map[string]*lineItem{},
		repairForms: map[string]decimal.Decimal{},
		vehicles:    map[string][]api.Vehicle{},
		accounts:    map[string]account{},
	}
}

// summary recomputes the cart totals from scratch on every call so the
// reported counts always reflect the stored lines.
func (s *store) summary() (int, decimal.Decimal) {
	qty := 0
	amount := decimal.Zero
	for _, item := range s.cart {
		qty += item.Quantity
		amount = amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return qty, amount
}

func (s *store) addItem(id, name string, unitPrice decimal.Decimal) int {
	if item, ok := s.cart[id]; ok {
		item.Quantity++
	} else {
		s.cart[id] = &lineItem{Name: name, UnitPrice: unitPrice, Quantity: 1}
	}
	qty, _ := s.summary()
	return qty
}

func (s *store) setQuantity(id string, quantity int) bool {
	item, ok := s.cart[id]
	if !ok {
		return false
	}
	if quantity <= 0 {
		delete(s.cart, id)
		return true
	}
	item.Quantity = quantity
	return true
}

func (s *store) removeItem(id string) bool {
	if _, ok := s.cart[id]; !ok {
		return false
	}
	delete(s.cart, id)
	return true
}

func (s *store) itemIDs() []string {
	ids := make([]string, 0, len(s.cart))
	for id := range s.cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
