package stock_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del storage. Replica el contrato de la implementación
// PostgreSQL para poder probar el coordinador sin base de datos:
//
//   - GetForUpdate toma un mutex por fila (movimiento o par producto/ubicación)
//     que se sostiene hasta el final de la "transacción", igual que un
//     SELECT FOR UPDATE sostiene el row lock hasta el COMMIT.
//   - Las escrituras dentro de Run quedan en staging y se aplican al estado
//     committeado solo si fn retorna nil; un error descarta todo el staging.
//   - Las lecturas fuera de Run solo ven estado committeado, nunca parciales.
//
// failSaveKey inyecta un fallo de escritura sobre un par concreto, para probar
// que un commit que falla a mitad de camino no deja ningún efecto observable.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu      sync.Mutex
	entries map[string]*entity.LedgerEntry
	levels  map[string]*entity.StockLevel
	reorder map[string]repository.LowStockItem // productID -> datos de catálogo

	entryLocks map[string]*sync.Mutex
	pairLocks  map[string]*sync.Mutex

	failSaveKey string // pairKey que fuerza error en Save dentro de la tx
}

func newMemStore() *memStore {
	return &memStore{
		entries:    make(map[string]*entity.LedgerEntry),
		levels:     make(map[string]*entity.StockLevel),
		reorder:    make(map[string]repository.LowStockItem),
		entryLocks: make(map[string]*sync.Mutex),
		pairLocks:  make(map[string]*sync.Mutex),
	}
}

func pairKey(productID, locationID string) string {
	return productID + "|" + locationID
}

func (s *memStore) entryLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entryLocks[id]; !ok {
		s.entryLocks[id] = &sync.Mutex{}
	}
	return s.entryLocks[id]
}

func (s *memStore) pairLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pairLocks[key]; !ok {
		s.pairLocks[key] = &sync.Mutex{}
	}
	return s.pairLocks[key]
}

// seedEntry inserta un movimiento directamente en el estado committeado.
func (s *memStore) seedEntry(e *entity.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.entries[e.ID] = &cp
}

// seedLevel inserta un nivel directamente en el estado committeado.
func (s *memStore) seedLevel(productID, locationID string, onHand, reserved int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &entity.StockLevel{
		ProductID:  productID,
		LocationID: locationID,
		OnHand:     decimal.NewFromInt(onHand),
		Reserved:   decimal.NewFromInt(reserved),
		UpdatedAt:  time.Now(),
	}
	l.Recompute()
	s.levels[pairKey(productID, locationID)] = l
}

func (s *memStore) setReorder(productID, sku, name string, level int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorder[productID] = repository.LowStockItem{
		ProductSKU:   sku,
		ProductName:  name,
		ReorderLevel: decimal.NewFromInt(level),
	}
}

func (s *memStore) getEntry(id string) *entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

func (s *memStore) getLevel(productID, locationID string) *entity.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[pairKey(productID, locationID)]
	if !ok {
		return nil
	}
	cp := *l
	return &cp
}

func (s *memStore) listEntries(f repository.LedgerFilter) []*entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range s.entries {
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && e.SourceLocationID != f.LocationID && e.DestinationLocationID != f.LocationID {
			continue
		}
		if f.DocumentType != "" && e.DocumentType != f.DocumentType {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list
}

func (s *memStore) listLevels(f repository.LevelFilter) []*entity.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.StockLevel
	for _, l := range s.levels {
		if f.ProductID != "" && l.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && l.LocationID != f.LocationID {
			continue
		}
		if f.MinQuantity != nil && l.OnHand.LessThan(*f.MinQuantity) {
			continue
		}
		cp := *l
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list
}

func (s *memStore) listBelowReorder() []repository.LowStockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []repository.LowStockItem
	for _, l := range s.levels {
		meta, ok := s.reorder[l.ProductID]
		if !ok || !meta.ReorderLevel.GreaterThan(decimal.Zero) {
			continue
		}
		if l.OnHand.GreaterThan(meta.ReorderLevel) {
			continue
		}
		it := meta
		it.Level = *l
		items = append(items, it)
	}
	return items
}

// ─── repos fuera de transacción: solo ven estado committeado ───

type memLedgerRepo struct{ store *memStore }

var _ repository.StockLedgerRepository = (*memLedgerRepo)(nil)

func (r *memLedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	r.store.seedEntry(e)
	return nil
}

func (r *memLedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	return r.store.getEntry(id), nil
}

func (r *memLedgerRepo) GetForUpdate(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	return r.store.getEntry(id), nil
}

func (r *memLedgerRepo) MarkValidated(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.entries[id]
	if !ok || e.Status != entity.StatusDraft {
		return fmt.Errorf("mark validated: movimiento %s no está en DRAFT", id)
	}
	e.Status = entity.StatusValidated
	e.ValidatedAt = &at
	return nil
}

func (r *memLedgerRepo) MarkCancelled(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.entries[id]
	if !ok || e.Status != entity.StatusDraft {
		return fmt.Errorf("mark cancelled: movimiento %s no está en DRAFT", id)
	}
	e.Status = entity.StatusCancelled
	return nil
}

func (r *memLedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.store.listEntries(f), nil
}

type memLevelRepo struct{ store *memStore }

var _ repository.StockLevelRepository = (*memLevelRepo)(nil)

func (r *memLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	return r.store.getLevel(productID, locationID), nil
}

func (r *memLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if l := r.store.getLevel(productID, locationID); l != nil {
		return l, nil
	}
	return entity.NewStockLevel(productID, locationID), nil
}

func (r *memLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *level
	r.store.levels[pairKey(level.ProductID, level.LocationID)] = &cp
	return nil
}

func (r *memLevelRepo) List(ctx context.Context, f repository.LevelFilter) ([]*entity.StockLevel, error) {
	return r.store.listLevels(f), nil
}

func (r *memLevelRepo) ListBelowReorder(ctx context.Context) ([]repository.LowStockItem, error) {
	return r.store.listBelowReorder(), nil
}

// ─── transacción en memoria ───

type memTx struct {
	store *memStore

	stagedEntries map[string]*entity.LedgerEntry
	stagedLevels  map[string]*entity.StockLevel

	heldEntry []*sync.Mutex
	heldPairs []*sync.Mutex
}

type memTxRunner struct {
	store *memStore
}

var _ stock.TxRunner = (*memTxRunner)(nil)

func newMemTxRunner(store *memStore) *memTxRunner {
	return &memTxRunner{store: store}
}

// Run ejecuta fn con repos atados a una transacción staged. Los locks por fila
// se liberan recién después de aplicar el staging al estado committeado, igual
// que los row locks de PostgreSQL se liberan en el COMMIT.
func (r *memTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.StockLedgerRepository,
	levelRepo repository.StockLevelRepository,
) error) error {
	tx := &memTx{
		store:         r.store,
		stagedEntries: make(map[string]*entity.LedgerEntry),
		stagedLevels:  make(map[string]*entity.StockLevel),
	}
	defer tx.releaseLocks()

	if err := fn(&txLedgerRepo{tx}, &txLevelRepo{tx}); err != nil {
		return err // rollback: el staging se descarta
	}

	// commit: aplicar el staging antes de soltar los locks
	r.store.mu.Lock()
	for id, e := range tx.stagedEntries {
		cp := *e
		r.store.entries[id] = &cp
	}
	for key, l := range tx.stagedLevels {
		cp := *l
		r.store.levels[key] = &cp
	}
	r.store.mu.Unlock()
	return nil
}

func (tx *memTx) releaseLocks() {
	for i := len(tx.heldPairs) - 1; i >= 0; i-- {
		tx.heldPairs[i].Unlock()
	}
	for i := len(tx.heldEntry) - 1; i >= 0; i-- {
		tx.heldEntry[i].Unlock()
	}
	tx.heldPairs = nil
	tx.heldEntry = nil
}

type txLedgerRepo struct{ tx *memTx }

func (r *txLedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	cp := *e
	r.tx.stagedEntries[e.ID] = &cp
	return nil
}

func (r *txLedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	if e, ok := r.tx.stagedEntries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return r.tx.store.getEntry(id), nil
}

func (r *txLedgerRepo) GetForUpdate(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	lock := r.tx.store.entryLock(id)
	lock.Lock()
	r.tx.heldEntry = append(r.tx.heldEntry, lock)
	e := r.tx.store.getEntry(id)
	if e == nil {
		return nil, nil
	}
	r.tx.stagedEntries[id] = e
	cp := *e
	return &cp, nil
}

func (r *txLedgerRepo) MarkValidated(ctx context.Context, id string, at time.Time) error {
	e, ok := r.tx.stagedEntries[id]
	if !ok || e.Status != entity.StatusDraft {
		return errors.New("mark validated: movimiento no está en DRAFT")
	}
	e.Status = entity.StatusValidated
	e.ValidatedAt = &at
	return nil
}

func (r *txLedgerRepo) MarkCancelled(ctx context.Context, id string) error {
	e, ok := r.tx.stagedEntries[id]
	if !ok || e.Status != entity.StatusDraft {
		return errors.New("mark cancelled: movimiento no está en DRAFT")
	}
	e.Status = entity.StatusCancelled
	return nil
}

func (r *txLedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.tx.store.listEntries(f), nil
}

type txLevelRepo struct{ tx *memTx }

func (r *txLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if l, ok := r.tx.stagedLevels[pairKey(productID, locationID)]; ok {
		cp := *l
		return &cp, nil
	}
	return r.tx.store.getLevel(productID, locationID), nil
}

// GetForUpdate replica la semántica del repo PostgreSQL: bloquea el par y
// devuelve la fila committeada, o una fila staged en cero si el par no existe.
func (r *txLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	key := pairKey(productID, locationID)
	staged, held := r.tx.stagedLevels[key]
	if !held {
		lock := r.tx.store.pairLock(key)
		lock.Lock()
		r.tx.heldPairs = append(r.tx.heldPairs, lock)

		if committed := r.tx.store.getLevel(productID, locationID); committed != nil {
			staged = committed
		} else {
			staged = entity.NewStockLevel(productID, locationID)
		}
		r.tx.stagedLevels[key] = staged
	}
	cp := *staged
	return &cp, nil
}

func (r *txLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	key := pairKey(level.ProductID, level.LocationID)
	if r.tx.store.failSaveKey == key {
		return errors.New("save stock level: fallo de escritura simulado")
	}
	cp := *level
	r.tx.stagedLevels[key] = &cp
	return nil
}

func (r *txLevelRepo) List(ctx context.Context, f repository.LevelFilter) ([]*entity.StockLevel, error) {
	return r.tx.store.listLevels(f), nil
}

func (r *txLevelRepo) ListBelowReorder(ctx context.Context) ([]repository.LowStockItem, error) {
	return r.tx.store.listBelowReorder(), nil
}
