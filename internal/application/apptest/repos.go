package apptest

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository          = (*ItemRepo)(nil)
	_ repository.LedgerRepository        = (*LedgerRepo)(nil)
	_ repository.RequestRepository       = (*RequestRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.StockInRepository       = (*StockInRepo)(nil)
	_ repository.AdjustmentRepository    = (*AdjustmentRepo)(nil)
	_ repository.SupplierRepository      = (*SupplierRepo)(nil)
)

// ItemRepo doble en memoria de ItemRepository.
type ItemRepo struct{ s *Store }

// NewItemRepo construye el doble de artículos.
func NewItemRepo(s *Store) *ItemRepo { return &ItemRepo{s: s} }

func (r *ItemRepo) Create(item *entity.Item) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, existing := range r.s.Items {
		if existing.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.Items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepo) Update(item *entity.Item) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	existing, ok := r.s.Items[item.ID]
	if !ok {
		return nil
	}
	c := cloneItem(item)
	c.Quantity = existing.Quantity // la cantidad solo cambia vía UpdateQuantity
	r.s.Items[item.ID] = c
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if item, ok := r.s.Items[id]; ok {
		return cloneItem(item), nil
	}
	return nil, nil
}

func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	for _, item := range r.s.Items {
		if item.SKU == sku {
			return cloneItem(item), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *ItemRepo) UpdateQuantity(id string, quantity int64) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if item, ok := r.s.Items[id]; ok {
		item.Quantity = quantity
		item.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ItemRepo) List(status string, limit, offset int) ([]*entity.Item, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.Item
	for _, item := range r.s.Items {
		if status == "" || item.Status == status {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

func (r *ItemRepo) ListBelowReorderLevel(limit, offset int) ([]*entity.Item, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.Item
	for _, item := range r.s.Items {
		if item.Status == entity.ItemStatusActive && item.Quantity <= item.ReorderLevel {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

// LedgerRepo doble en memoria de LedgerRepository (append-only).
type LedgerRepo struct{ s *Store }

// NewLedgerRepo construye el doble del ledger.
func NewLedgerRepo(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	c := *entry
	r.s.Ledger = append(r.s.Ledger, &c)
	return nil
}

func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	for _, e := range r.s.Ledger {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range r.s.Ledger {
		if e.ItemID != itemID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *LedgerRepo) SumDeltasByItem(itemID string) (int64, error) {
	return r.s.LedgerSum(itemID), nil
}

// RequestRepo doble en memoria de RequestRepository.
type RequestRepo struct{ s *Store }

// NewRequestRepo construye el doble de solicitudes.
func NewRequestRepo(s *Store) *RequestRepo { return &RequestRepo{s: s} }

func (r *RequestRepo) Create(req *entity.ItemRequest) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	r.s.Requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *RequestRepo) GetByID(id string) (*entity.ItemRequest, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if req, ok := r.s.Requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, nil
}

func (r *RequestRepo) GetForUpdate(id string) (*entity.ItemRequest, error) {
	return r.GetByID(id)
}

func (r *RequestRepo) Update(req *entity.ItemRequest) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	r.s.Requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *RequestRepo) List(status, requesterID string, limit, offset int) ([]*entity.ItemRequest, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.ItemRequest
	for _, req := range r.s.Requests {
		if status != "" && req.Status != status {
			continue
		}
		if requesterID != "" && req.RequesterID != requesterID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// PurchaseOrderRepo doble en memoria de PurchaseOrderRepository.
type PurchaseOrderRepo struct{ s *Store }

// NewPurchaseOrderRepo construye el doble de órdenes de compra.
func NewPurchaseOrderRepo(s *Store) *PurchaseOrderRepo { return &PurchaseOrderRepo{s: s} }

func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for _, existing := range r.s.Orders {
		if existing.Number == order.Number {
			return domain.ErrDuplicate
		}
	}
	c := cloneOrder(order)
	c.Lines = nil // las líneas viven aparte, como en la tabla real
	r.s.Orders[order.ID] = c
	return nil
}

func (r *PurchaseOrderRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	c := *line
	r.s.OrderLines = append(r.s.OrderLines, &c)
	return nil
}

func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if order, ok := r.s.Orders[id]; ok {
		return cloneOrder(order), nil
	}
	return nil, nil
}

func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r *PurchaseOrderRepo) ListLines(orderID string) ([]*entity.PurchaseOrderLine, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.PurchaseOrderLine
	for _, l := range r.s.OrderLines {
		if l.OrderID == orderID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *PurchaseOrderRepo) UpdateLineReceived(lineID string, quantityReceived int64) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	for _, l := range r.s.OrderLines {
		if l.ID == lineID {
			l.QuantityReceived = quantityReceived
			return nil
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) UpdateStatus(id, status string, receivedAt *time.Time) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if order, ok := r.s.Orders[id]; ok {
		order.Status = status
		order.ReceivedAt = receivedAt
		order.UpdatedAt = time.Now()
	}
	return nil
}

func (r *PurchaseOrderRepo) NextNumber() (int64, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	r.s.orderSeq++
	return r.s.orderSeq, nil
}

func (r *PurchaseOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.PurchaseOrder
	for _, order := range r.s.Orders {
		if status == "" || order.Status == status {
			out = append(out, cloneOrder(order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), nil
}

// StockInRepo doble en memoria de StockInRepository.
type StockInRepo struct{ s *Store }

// NewStockInRepo construye el doble de actas de entrada.
func NewStockInRepo(s *Store) *StockInRepo { return &StockInRepo{s: s} }

func (r *StockInRepo) CreateDocument(doc *entity.StockInDocument) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	for _, existing := range r.s.Docs {
		if existing.Reference == doc.Reference {
			return domain.ErrDuplicate
		}
	}
	c := cloneDoc(doc)
	c.Lines = nil
	r.s.Docs[doc.ID] = c
	return nil
}

func (r *StockInRepo) GetByID(id string) (*entity.StockInDocument, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if doc, ok := r.s.Docs[id]; ok {
		return cloneDoc(doc), nil
	}
	return nil, nil
}

func (r *StockInRepo) GetForUpdate(id string) (*entity.StockInDocument, error) {
	return r.GetByID(id)
}

func (r *StockInRepo) CreateLine(line *entity.StockInLine) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	c := *line
	r.s.DocLines = append(r.s.DocLines, &c)
	return nil
}

func (r *StockInRepo) ListLines(documentID string) ([]*entity.StockInLine, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.StockInLine
	for _, l := range r.s.DocLines {
		if l.DocumentID == documentID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *StockInRepo) UpdateStatus(id, status string) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if doc, ok := r.s.Docs[id]; ok {
		doc.Status = status
		doc.UpdatedAt = time.Now()
	}
	return nil
}

func (r *StockInRepo) List(status string, limit, offset int) ([]*entity.StockInDocument, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.StockInDocument
	for _, doc := range r.s.Docs {
		if status == "" || doc.Status == status {
			out = append(out, cloneDoc(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return page(out, limit, offset), nil
}

// AdjustmentRepo doble en memoria de AdjustmentRepository (append-only).
type AdjustmentRepo struct{ s *Store }

// NewAdjustmentRepo construye el doble de ajustes.
func NewAdjustmentRepo(s *Store) *AdjustmentRepo { return &AdjustmentRepo{s: s} }

func (r *AdjustmentRepo) Create(adj *entity.StockAdjustment) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	c := *adj
	r.s.Adjustments = append(r.s.Adjustments, &c)
	return nil
}

func (r *AdjustmentRepo) List(itemID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.StockAdjustment
	for _, a := range r.s.Adjustments {
		if itemID == "" || a.ItemID == itemID {
			c := *a
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

// SupplierRepo doble en memoria de SupplierRepository.
type SupplierRepo struct{ s *Store }

// NewSupplierRepo construye el doble de proveedores.
func NewSupplierRepo(s *Store) *SupplierRepo { return &SupplierRepo{s: s} }

func (r *SupplierRepo) Create(sup *entity.Supplier) error {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	r.s.Suppliers[sup.ID] = cloneSupplier(sup)
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	if sup, ok := r.s.Suppliers[id]; ok {
		return cloneSupplier(sup), nil
	}
	return nil, nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.s.stateMu.Lock()
	defer r.s.stateMu.Unlock()
	var out []*entity.Supplier
	for _, sup := range r.s.Suppliers {
		out = append(out, cloneSupplier(sup))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
