package fulfillment_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estado en memoria con semántica de transacción (snapshot + commit/rollback)
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	orders    map[string]*entity.Order
	stock     map[string]entity.StockRecord
	movements []entity.StockMovement
	txns      []entity.Transaction
	counters  map[string]int64
}

func newMemState() *memState {
	return &memState{
		orders:   map[string]*entity.Order{},
		stock:    map[string]entity.StockRecord{},
		counters: map[string]int64{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, o := range s.orders {
		c.orders[id] = copyOrder(o)
	}
	for id, r := range s.stock {
		c.stock[id] = r
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.txns = append([]entity.Transaction(nil), s.txns...)
	for p, v := range s.counters {
		c.counters[p] = v
	}
	return c
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]*entity.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		itCp := *it
		itCp.Stock = nil
		cp.Items = append(cp.Items, &itCp)
	}
	return &cp
}

// memTxRunner serializa las transacciones (equivalente a serializable) y descarta
// la copia de trabajo si fn falla.
type memTxRunner struct {
	mu    sync.Mutex
	state *memState

	// fallas inyectadas
	failMovementAfter int // >0: el N-ésimo insert de movimiento falla
	failUpdateStatus  error
	beginErr          error
	movementInserts   int
	runs              int
}

func newMemTxRunner() *memTxRunner {
	return &memTxRunner{state: newMemState()}
}

func (r *memTxRunner) RunFulfillment(ctx context.Context, fn func(stores fulfillment.Stores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	if r.beginErr != nil {
		return r.beginErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.state.clone()
	stores := fulfillment.Stores{
		Orders:       &memOrders{r: r, s: work},
		Stock:        &memStock{s: work},
		Movements:    &memMovements{r: r, s: work},
		Transactions: &memTransactions{s: work},
		Sequences:    &memSequences{s: work},
	}
	if err := fn(stores); err != nil {
		return err
	}
	r.state = work
	return nil
}

// helpers de lectura para asserts (fuera de transacción)

func (r *memTxRunner) stockOf(id string) entity.StockRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.stock[id]
}

func (r *memTxRunner) orderOf(id string) entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *copyOrder(r.state.orders[id])
}

func (r *memTxRunner) movements() []entity.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.StockMovement(nil), r.state.movements...)
}

func (r *memTxRunner) transactions() []entity.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Transaction(nil), r.state.txns...)
}

// seedStock y seedOrder cargan datos iniciales directamente en el estado confirmado.
func (r *memTxRunner) seedStock(id string, onHand, reserved int64) {
	r.state.stock[id] = entity.StockRecord{
		ID:       id,
		SKU:      "SKU-" + id,
		Name:     "Producto " + id,
		OnHand:   decimal.NewFromInt(onHand),
		Reserved: decimal.NewFromInt(reserved),
	}
}

type line struct {
	stockID string
	qty     int64
	price   int64
}

func (r *memTxRunner) seedOrder(id string, status order.Status, lines ...line) {
	o := &entity.Order{
		ID:                id,
		OrderNumber:       "SO-2026-" + id,
		CustomerName:      "Cliente " + id,
		Status:            status,
		FulfillmentStatus: order.FulfillmentUnfulfilled,
		OrderDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	total := decimal.Zero
	for i, l := range lines {
		qty, price := decimal.NewFromInt(l.qty), decimal.NewFromInt(l.price)
		o.Items = append(o.Items, &entity.OrderItem{
			ID:            fmt.Sprintf("%s-L%d", id, i+1),
			OrderID:       id,
			Description:   "línea " + l.stockID,
			Quantity:      qty,
			UnitPrice:     price,
			StockRecordID: l.stockID,
		})
		total = total.Add(qty.Mul(price))
	}
	o.GrandTotal = total
	r.state.orders[id] = o
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios sobre la copia de trabajo
// ──────────────────────────────────────────────────────────────────────────────

type memOrders struct {
	r *memTxRunner
	s *memState
}

func (m *memOrders) GetWithItems(_ context.Context, id string) (*entity.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := copyOrder(o)
	for _, it := range cp.Items {
		if rec, ok := m.s.stock[it.StockRecordID]; ok && it.StockRecordID != "" {
			recCp := rec
			it.Stock = &recCp
		}
	}
	return cp, nil
}

func (m *memOrders) GetWithItemsForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return m.GetWithItems(ctx, id)
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status order.Status, fulfillmentStatus string) error {
	if m.r.failUpdateStatus != nil {
		return m.r.failUpdateStatus
	}
	o, ok := m.s.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = status
	o.FulfillmentStatus = fulfillmentStatus
	return nil
}

func (m *memOrders) Create(_ context.Context, o *entity.Order) error {
	m.s.orders[o.ID] = copyOrder(o)
	return nil
}

type memStock struct {
	s *memState
}

func (m *memStock) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	rec, ok := m.s.stock[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memStock) LockForUpdate(_ context.Context, ids []string) (map[string]*entity.StockRecord, error) {
	out := make(map[string]*entity.StockRecord, len(ids))
	for _, id := range ids {
		if rec, ok := m.s.stock[id]; ok {
			recCp := rec
			out[id] = &recCp
		}
	}
	return out, nil
}

func (m *memStock) AddReserved(_ context.Context, id string, delta decimal.Decimal) error {
	rec, ok := m.s.stock[id]
	if !ok {
		return errors.New("stock not found")
	}
	rec.Reserved = decimal.Max(rec.Reserved.Add(delta), decimal.Zero)
	m.s.stock[id] = rec
	return nil
}

func (m *memStock) Deduct(_ context.Context, id string, qty decimal.Decimal) error {
	rec, ok := m.s.stock[id]
	if !ok {
		return errors.New("stock not found")
	}
	rec.OnHand = rec.OnHand.Sub(qty)
	if rec.OnHand.IsNegative() {
		return errors.New("check constraint on_hand >= 0")
	}
	rec.Reserved = decimal.Max(rec.Reserved.Sub(qty), decimal.Zero)
	m.s.stock[id] = rec
	return nil
}

func (m *memStock) Create(_ context.Context, rec *entity.StockRecord) error {
	m.s.stock[rec.ID] = *rec
	return nil
}

type memMovements struct {
	r *memTxRunner
	s *memState
}

func (m *memMovements) Create(_ context.Context, mv *entity.StockMovement) error {
	m.r.movementInserts++
	if m.r.failMovementAfter > 0 && m.r.movementInserts == m.r.failMovementAfter {
		return errors.New("disk full")
	}
	for _, existing := range m.s.movements {
		if existing.MovementID == mv.MovementID {
			return fmt.Errorf("duplicate movement_id %s", mv.MovementID)
		}
	}
	m.s.movements = append(m.s.movements, *mv)
	return nil
}

func (m *memMovements) LastIDWithPrefix(_ context.Context, prefix string) (string, error) {
	ids := make([]string, 0, len(m.s.movements))
	for _, mv := range m.s.movements {
		ids = append(ids, mv.MovementID)
	}
	return lastWithPrefix(ids, prefix), nil
}

func (m *memMovements) ListByReference(_ context.Context, ref string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range m.s.movements {
		if m.s.movements[i].ReferenceID == ref {
			mv := m.s.movements[i]
			out = append(out, &mv)
		}
	}
	return out, nil
}

type memTransactions struct {
	s *memState
}

func (m *memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	for _, existing := range m.s.txns {
		if existing.TransactionID == t.TransactionID {
			return fmt.Errorf("duplicate transaction_id %s", t.TransactionID)
		}
	}
	m.s.txns = append(m.s.txns, *t)
	return nil
}

func (m *memTransactions) LastIDWithPrefix(_ context.Context, prefix string) (string, error) {
	ids := make([]string, 0, len(m.s.txns))
	for _, t := range m.s.txns {
		ids = append(ids, t.TransactionID)
	}
	return lastWithPrefix(ids, prefix), nil
}

func (m *memTransactions) ListByOrder(_ context.Context, orderID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for i := range m.s.txns {
		if m.s.txns[i].OrderID == orderID {
			t := m.s.txns[i]
			out = append(out, &t)
		}
	}
	return out, nil
}

type memSequences struct {
	s *memState
}

func (m *memSequences) Next(_ context.Context, prefix string, seed int64) (int64, error) {
	if seed < 1 {
		seed = 1
	}
	cur, ok := m.s.counters[prefix]
	next := seed
	if ok && cur+1 > seed {
		next = cur + 1
	}
	m.s.counters[prefix] = next
	return next, nil
}

// lastWithPrefix replica el ORDER BY length DESC, id DESC de PostgreSQL.
func lastWithPrefix(ids []string, prefix string) string {
	var matching []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix+"-") {
			matching = append(matching, id)
		}
	}
	if len(matching) == 0 {
		return ""
	}
	sort.Slice(matching, func(i, j int) bool {
		if len(matching[i]) != len(matching[j]) {
			return len(matching[i]) > len(matching[j])
		}
		return matching[i] > matching[j]
	})
	return matching[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos, métricas y PDF
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []fulfillment.StatusChangedEvent
	err    error
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, evt fulfillment.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type observation struct {
	from, to, result string
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *recordingMetrics) ObserveStatusChange(from, to, result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{from: from, to: to, result: result})
}

func (m *recordingMetrics) last() observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.obs) == 0 {
		return observation{}
	}
	return m.obs[len(m.obs)-1]
}

type stubPackingSlip struct {
	got *entity.Order
}

func (s *stubPackingSlip) GeneratePackingSlip(_ context.Context, o *entity.Order) ([]byte, error) {
	s.got = o
	return []byte("%PDF-stub"), nil
}
