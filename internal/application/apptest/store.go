// Package apptest provee dobles en memoria de los repositorios y del TxRunner
// para los tests de casos de uso. El TxRunner serializa transacciones con un
// mutex (emulando los bloqueos de fila de PostgreSQL) y revierte el estado con
// snapshots cuando la función de la transacción falla.
package apptest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store estado compartido en memoria de todos los repositorios falsos.
type Store struct {
	stateMu sync.Mutex // protege el estado en cada operación
	txMu    sync.Mutex // serializa transacciones completas

	Items       map[string]*entity.Item
	Ledger      []*entity.LedgerEntry
	Requests    map[string]*entity.ItemRequest
	Orders      map[string]*entity.PurchaseOrder
	OrderLines  []*entity.PurchaseOrderLine
	Docs        map[string]*entity.StockInDocument
	DocLines    []*entity.StockInLine
	Adjustments []*entity.StockAdjustment
	Suppliers   map[string]*entity.Supplier

	orderSeq int64
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		Items:     make(map[string]*entity.Item),
		Requests:  make(map[string]*entity.ItemRequest),
		Orders:    make(map[string]*entity.PurchaseOrder),
		Docs:      make(map[string]*entity.StockInDocument),
		Suppliers: make(map[string]*entity.Supplier),
	}
}

// SeedItem inserta un artículo directamente, asignando ID si falta.
func (s *Store) SeedItem(item *entity.Item) *entity.Item {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = entity.ItemStatusActive
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.Items[item.ID] = cloneItem(item)
	return item
}

// SeedSupplier inserta un proveedor directamente, asignando ID si falta.
func (s *Store) SeedSupplier(sup *entity.Supplier) *entity.Supplier {
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.Suppliers[sup.ID] = cloneSupplier(sup)
	return sup
}

// ItemQuantity devuelve la existencia actual de un artículo.
func (s *Store) ItemQuantity(id string) int64 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if item, ok := s.Items[id]; ok {
		return item.Quantity
	}
	return 0
}

// LedgerSum devuelve Σ delta del artículo en el ledger.
func (s *Store) LedgerSum(itemID string) int64 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	var sum int64
	for _, e := range s.Ledger {
		if e.ItemID == itemID {
			sum += e.Delta
		}
	}
	return sum
}

// LedgerEntries devuelve las entradas del ledger de un artículo en orden de inserción.
func (s *Store) LedgerEntries(itemID string) []*entity.LedgerEntry {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range s.Ledger {
		if e.ItemID == itemID {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

type snapshot struct {
	items       map[string]*entity.Item
	ledger      []*entity.LedgerEntry
	requests    map[string]*entity.ItemRequest
	orders      map[string]*entity.PurchaseOrder
	orderLines  []*entity.PurchaseOrderLine
	docs        map[string]*entity.StockInDocument
	docLines    []*entity.StockInLine
	adjustments []*entity.StockAdjustment
	orderSeq    int64
}

func (s *Store) takeSnapshot() snapshot {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	snap := snapshot{
		items:    make(map[string]*entity.Item, len(s.Items)),
		requests: make(map[string]*entity.ItemRequest, len(s.Requests)),
		orders:   make(map[string]*entity.PurchaseOrder, len(s.Orders)),
		docs:     make(map[string]*entity.StockInDocument, len(s.Docs)),
		orderSeq: s.orderSeq,
	}
	for id, item := range s.Items {
		snap.items[id] = cloneItem(item)
	}
	for id, req := range s.Requests {
		snap.requests[id] = cloneRequest(req)
	}
	for id, order := range s.Orders {
		snap.orders[id] = cloneOrder(order)
	}
	for id, doc := range s.Docs {
		snap.docs[id] = cloneDoc(doc)
	}
	for _, e := range s.Ledger {
		c := *e
		snap.ledger = append(snap.ledger, &c)
	}
	for _, l := range s.OrderLines {
		c := *l
		snap.orderLines = append(snap.orderLines, &c)
	}
	for _, l := range s.DocLines {
		c := *l
		snap.docLines = append(snap.docLines, &c)
	}
	for _, a := range s.Adjustments {
		c := *a
		snap.adjustments = append(snap.adjustments, &c)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.Items = snap.items
	s.Ledger = snap.ledger
	s.Requests = snap.requests
	s.Orders = snap.orders
	s.OrderLines = snap.orderLines
	s.Docs = snap.docs
	s.DocLines = snap.docLines
	s.Adjustments = snap.adjustments
	s.orderSeq = snap.orderSeq
}

// TxRunner doble del runner transaccional: serializa cada transacción con un
// mutex y revierte el estado completo si la función retorna error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner falso sobre el estado dado.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (t *TxRunner) inTx(fn func() error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	snap := t.s.takeSnapshot()
	if err := fn(); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// Run emula la transacción del motor de mutaciones.
func (t *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return t.inTx(func() error {
		return fn(NewItemRepo(t.s), NewLedgerRepo(t.s))
	})
}

// RunAdjustment emula la transacción de ajustes.
func (t *TxRunner) RunAdjustment(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	adjRepo repository.AdjustmentRepository,
) error) error {
	return t.inTx(func() error {
		return fn(NewItemRepo(t.s), NewLedgerRepo(t.s), NewAdjustmentRepo(t.s))
	})
}

// RunRequest emula la transacción del flujo de solicitudes.
func (t *TxRunner) RunRequest(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	requestRepo repository.RequestRepository,
) error) error {
	return t.inTx(func() error {
		return fn(NewItemRepo(t.s), NewLedgerRepo(t.s), NewRequestRepo(t.s))
	})
}

// RunPurchase emula la transacción del flujo de compras.
func (t *TxRunner) RunPurchase(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return t.inTx(func() error {
		return fn(NewItemRepo(t.s), NewLedgerRepo(t.s), NewPurchaseOrderRepo(t.s))
	})
}

// RunStockIn emula la transacción del flujo de actas de entrada.
func (t *TxRunner) RunStockIn(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	docRepo repository.StockInRepository,
) error) error {
	return t.inTx(func() error {
		return fn(NewItemRepo(t.s), NewLedgerRepo(t.s), NewStockInRepo(t.s))
	})
}

func cloneItem(i *entity.Item) *entity.Item {
	c := *i
	return &c
}

func cloneRequest(r *entity.ItemRequest) *entity.ItemRequest {
	c := *r
	if r.QuantityApproved != nil {
		v := *r.QuantityApproved
		c.QuantityApproved = &v
	}
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

func cloneOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	if o.ExpectedAt != nil {
		t := *o.ExpectedAt
		c.ExpectedAt = &t
	}
	if o.ReceivedAt != nil {
		t := *o.ReceivedAt
		c.ReceivedAt = &t
	}
	c.Lines = append([]entity.PurchaseOrderLine(nil), o.Lines...)
	return &c
}

func cloneDoc(d *entity.StockInDocument) *entity.StockInDocument {
	c := *d
	c.Lines = append([]entity.StockInLine(nil), d.Lines...)
	return &c
}

func cloneSupplier(s *entity.Supplier) *entity.Supplier {
	c := *s
	return &c
}
