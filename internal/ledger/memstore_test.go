package ledger

import (
	"context"
	"sort"
	"strings"

	"walletd/internal/core"
)

// memStore keeps the full repository surface in maps so the operation
// logic can be exercised without a database. InTx snapshots the maps and
// restores them on error, mirroring a rollback.
type memStore struct {
	nextID       int64
	paymentTypes map[int64]core.PaymentType
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		paymentTypes: make(map[int64]core.PaymentType),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addPaymentType(pt core.PaymentType) core.PaymentType {
	pt.ID = m.id()
	m.paymentTypes[pt.ID] = pt
	return pt
}

func (m *memStore) addCategory(c core.Category) core.Category {
	c.ID = m.id()
	m.categories[c.ID] = c
	return c
}

func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	pts := make(map[int64]core.PaymentType, len(m.paymentTypes))
	for k, v := range m.paymentTypes {
		pts[k] = v
	}
	cats := make(map[int64]core.Category, len(m.categories))
	for k, v := range m.categories {
		cats[k] = v
	}
	ts := make(map[int64]core.Transaction, len(m.transactions))
	for k, v := range m.transactions {
		ts[k] = v
	}
	if err := fn(ctx, m); err != nil {
		m.paymentTypes, m.categories, m.transactions = pts, cats, ts
		return err
	}
	return nil
}

func (m *memStore) PaymentType(_ context.Context, walletID, id int64) (core.PaymentType, error) {
	pt, ok := m.paymentTypes[id]
	if !ok || pt.WalletID != walletID {
		return core.PaymentType{}, core.ErrNotFound
	}
	return pt, nil
}

func (m *memStore) PaymentTypeByName(_ context.Context, walletID int64, name string) (core.PaymentType, error) {
	for _, pt := range m.paymentTypes {
		if pt.WalletID == walletID && strings.EqualFold(pt.Name, name) {
			return pt, nil
		}
	}
	return core.PaymentType{}, core.ErrNotFound
}

func (m *memStore) ListPaymentTypes(_ context.Context, walletID int64) ([]core.PaymentType, error) {
	var out []core.PaymentType
	for _, pt := range m.paymentTypes {
		if pt.WalletID == walletID {
			out = append(out, pt)
		}
	}
	usage := make(map[int64]int)
	for _, t := range m.transactions {
		usage[t.PaymentTypeID]++
	}
	sort.Slice(out, func(i, j int) bool {
		if usage[out[i].ID] != usage[out[j].ID] {
			return usage[out[i].ID] > usage[out[j].ID]
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *memStore) InsertPaymentType(_ context.Context, pt core.PaymentType) (int64, error) {
	pt.ID = m.id()
	m.paymentTypes[pt.ID] = pt
	return pt.ID, nil
}

func (m *memStore) UpdatePaymentType(_ context.Context, pt core.PaymentType) error {
	cur, ok := m.paymentTypes[pt.ID]
	if !ok || cur.WalletID != pt.WalletID {
		return core.ErrNotFound
	}
	m.paymentTypes[pt.ID] = pt
	return nil
}

func (m *memStore) DeletePaymentType(_ context.Context, walletID, id int64) error {
	pt, ok := m.paymentTypes[id]
	if !ok || pt.WalletID != walletID {
		return core.ErrNotFound
	}
	delete(m.paymentTypes, id)
	return nil
}

func (m *memStore) ReassignPaymentType(_ context.Context, walletID, fromID, toID int64) (int64, error) {
	var moved int64
	for id, t := range m.transactions {
		if t.WalletID == walletID && t.PaymentTypeID == fromID {
			t.PaymentTypeID = toID
			m.transactions[id] = t
			moved++
		}
	}
	return moved, nil
}

func (m *memStore) Category(_ context.Context, walletID, id int64) (core.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.WalletID != walletID {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (m *memStore) CategoryByName(_ context.Context, walletID int64, name string) (core.Category, error) {
	for _, c := range m.categories {
		if c.WalletID == walletID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (m *memStore) ListCategories(_ context.Context, walletID int64, includeService bool) ([]core.Category, error) {
	var out []core.Category
	for _, c := range m.categories {
		if c.WalletID != walletID {
			continue
		}
		if c.Service && !includeService {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) InsertCategory(_ context.Context, c core.Category) (int64, error) {
	c.ID = m.id()
	m.categories[c.ID] = c
	return c.ID, nil
}

func (m *memStore) UpdateCategory(_ context.Context, c core.Category) error {
	cur, ok := m.categories[c.ID]
	if !ok || cur.WalletID != c.WalletID {
		return core.ErrNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, walletID, id int64) error {
	c, ok := m.categories[id]
	if !ok || c.WalletID != walletID {
		return core.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) ReassignCategory(_ context.Context, walletID, fromID, toID int64) (int64, error) {
	var moved int64
	for id, t := range m.transactions {
		if t.WalletID == walletID && t.CategoryID == fromID {
			t.CategoryID = toID
			m.transactions[id] = t
			moved++
		}
	}
	return moved, nil
}

func (m *memStore) Transaction(_ context.Context, walletID, id int64) (core.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok || t.WalletID != walletID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListTransactions(_ context.Context, walletID int64) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	t.ID = m.id()
	m.transactions[t.ID] = t
	return t.ID, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	cur, ok := m.transactions[t.ID]
	if !ok || cur.WalletID != t.WalletID {
		return core.ErrNotFound
	}
	m.transactions[t.ID] = t
	return nil
}

func (m *memStore) DeleteTransaction(_ context.Context, walletID, id int64) error {
	t, ok := m.transactions[id]
	if !ok || t.WalletID != walletID {
		return core.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

var _ Store = (*memStore)(nil)

// memPublisher records published export notifications.
type memPublisher struct {
	published [][2]int64
	err       error
}

func (p *memPublisher) PublishTransactionExport(_ context.Context, transactionID, walletID int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, [2]int64{transactionID, walletID})
	return nil
}
