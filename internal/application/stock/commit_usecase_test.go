package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del coordinador de commit: atomicidad, factibilidad bajo lock,
// no-idempotencia y serialización por par (producto, ubicación).
// ──────────────────────────────────────────────────────────────────────────────

func seedDraft(s *memStore, id, docType string, src, dst string, qty int64) {
	s.seedEntry(&entity.LedgerEntry{
		ID:                    id,
		DocumentType:          docType,
		ProductID:             "prod-1",
		SourceLocationID:      src,
		DestinationLocationID: dst,
		Quantity:              decimal.NewFromInt(qty),
		Status:                entity.StatusDraft,
		CreatedAt:             time.Now(),
	})
}

func newCommitFixture() (*memStore, *stock.CommitOperationUseCase) {
	store := newMemStore()
	uc := stock.NewCommitOperationUseCase(newMemTxRunner(store))
	return store, uc
}

func TestCommit_Receipt_CreaNivelYLoIncrementa(t *testing.T) {
	store, uc := newCommitFixture()
	seedDraft(store, "mov-1", entity.DocumentTypeRECEIPT, "", "loc-A", 10)

	entry, err := uc.Commit(context.Background(), "mov-1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusValidated, entry.Status)
	require.NotNil(t, entry.ValidatedAt, "el commit debe estampar validated_at")

	level := store.getLevel("prod-1", "loc-A")
	require.NotNil(t, level, "el nivel debe crearse perezosamente en el primer ingreso")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)))
	assert.True(t, level.Reserved.IsZero())
	assert.True(t, level.Available.Equal(decimal.NewFromInt(10)))
}

func TestCommit_Delivery_DrenajeExactoHastaCero(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 5, 0)
	seedDraft(store, "mov-1", entity.DocumentTypeDELIVERY, "loc-A", "", 5)

	_, err := uc.Commit(context.Background(), "mov-1")
	require.NoError(t, err, "una salida que deja on_hand exactamente en cero debe pasar")

	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.IsZero())
}

func TestCommit_Delivery_StockInsuficiente_NoDejaNada(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 2, 0)
	seedDraft(store, "mov-1", entity.DocumentTypeDELIVERY, "loc-A", "", 3)

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni el nivel ni el movimiento deben haber cambiado.
	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(2)))
	entry := store.getEntry("mov-1")
	assert.Equal(t, entity.StatusDraft, entry.Status, "un commit rechazado deja el movimiento en DRAFT")
}

func TestCommit_Delivery_ContraParInexistente(t *testing.T) {
	// Sin fila de nivel, el par se trata como cero: toda salida es insuficiente.
	store, uc := newCommitFixture()
	seedDraft(store, "mov-1", entity.DocumentTypeDELIVERY, "loc-A", "", 1)

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El rollback descarta también la fila en cero creada perezosamente.
	assert.Nil(t, store.getLevel("prod-1", "loc-A"))
}

func TestCommit_AjusteNegativo_MasGrandeQueOnHand(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 2, 0)
	seedDraft(store, "mov-1", entity.DocumentTypeADJUSTMENT, "loc-A", "", -3)

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"un ajuste negativo no puede dejar on_hand < 0")

	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(2)))
}

func TestCommit_BajaQueRompeReservado(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 10, 4)
	seedDraft(store, "mov-1", entity.DocumentTypeDELIVERY, "loc-A", "", 7)

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"on_hand quedaría en 3, por debajo de reserved = 4")
}

func TestCommit_Transfer_MueveAtomicamente(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 10, 0)
	seedDraft(store, "mov-1", entity.DocumentTypeINTERNALTRANSFER, "loc-A", "loc-B", 4)

	_, err := uc.Commit(context.Background(), "mov-1")
	require.NoError(t, err)

	a := store.getLevel("prod-1", "loc-A")
	b := store.getLevel("prod-1", "loc-B")
	assert.True(t, a.OnHand.Equal(decimal.NewFromInt(6)))
	assert.True(t, b.OnHand.Equal(decimal.NewFromInt(4)), "el destino se crea perezosamente con el ingreso")
}

func TestCommit_Transfer_FalloParcial_RevierteTodo(t *testing.T) {
	// El Save del segundo par (loc-B, mayor en orden lexicográfico) falla:
	// la baja ya aplicada sobre loc-A debe revertirse junto con todo lo demás.
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 10, 0)
	store.failSaveKey = pairKey("prod-1", "loc-B")
	seedDraft(store, "mov-1", entity.DocumentTypeINTERNALTRANSFER, "loc-A", "loc-B", 4)

	_, err := uc.Commit(context.Background(), "mov-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageFailure,
		"un fallo de storage debe reportarse como ErrStorageFailure")

	a := store.getLevel("prod-1", "loc-A")
	assert.True(t, a.OnHand.Equal(decimal.NewFromInt(10)), "la baja en origen debe haberse revertido")
	assert.Nil(t, store.getLevel("prod-1", "loc-B"), "el destino no debe haber quedado creado")
	assert.Equal(t, entity.StatusDraft, store.getEntry("mov-1").Status)
}

func TestCommit_MovimientoInexistente(t *testing.T) {
	_, uc := newCommitFixture()
	_, err := uc.Commit(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommit_IDVacio(t *testing.T) {
	_, uc := newCommitFixture()
	_, err := uc.Commit(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommit_DobleCommit_SegundoFallaYElEfectoQuedaUnaVez(t *testing.T) {
	store, uc := newCommitFixture()
	seedDraft(store, "mov-1", entity.DocumentTypeRECEIPT, "", "loc-A", 10)

	_, err := uc.Commit(context.Background(), "mov-1")
	require.NoError(t, err)

	// El commit no es idempotente: el segundo intento es un error del caller.
	_, err = uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)

	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)), "el efecto debe haberse aplicado exactamente una vez")
}

func TestCommit_MovimientoCancelado(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedEntry(&entity.LedgerEntry{
		ID:                    "mov-1",
		DocumentType:          entity.DocumentTypeRECEIPT,
		ProductID:             "prod-1",
		DestinationLocationID: "loc-A",
		Quantity:              decimal.NewFromInt(10),
		Status:                entity.StatusCancelled,
	})

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized, "CANCELLED es terminal: no se puede validar")
}

func TestCommit_TipoDesconocido_NoMutaNada(t *testing.T) {
	store, uc := newCommitFixture()
	seedDraft(store, "mov-1", "TELEPORT", "", "loc-A", 1)

	_, err := uc.Commit(context.Background(), "mov-1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocumentType)
	assert.Equal(t, entity.StatusDraft, store.getEntry("mov-1").Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: serialización por par y orden de locks.
// ──────────────────────────────────────────────────────────────────────────────

// Dos salidas concurrentes que juntas exceden el stock: exactamente una debe
// pasar. La segunda lee el nivel ya decrementado (lock por par) y es rechazada.
func TestCommit_SalidasConcurrentes_ExactamenteUnaPasa(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 5, 0)
	seedDraft(store, "mov-1", entity.DocumentTypeDELIVERY, "loc-A", "", 3)
	seedDraft(store, "mov-2", entity.DocumentTypeDELIVERY, "loc-A", "", 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"mov-1", "mov-2"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = uc.Commit(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un commit debe pasar; 5 no alcanza para dos salidas de 3")

	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(2)),
		"el nivel final refleja una sola salida aplicada")
}

// Transfers cruzados A→B y B→A en simultáneo: el orden global fijo de locks
// (product_id, location_id) evita el deadlock y ambos deben completar.
func TestCommit_TransfersCruzados_SinDeadlock(t *testing.T) {
	store, uc := newCommitFixture()
	store.seedLevel("prod-1", "loc-A", 10, 0)
	store.seedLevel("prod-1", "loc-B", 10, 0)
	seedDraft(store, "mov-ab", entity.DocumentTypeINTERNALTRANSFER, "loc-A", "loc-B", 4)
	seedDraft(store, "mov-ba", entity.DocumentTypeINTERNALTRANSFER, "loc-B", "loc-A", 4)

	done := make(chan error, 2)
	for _, id := range []string{"mov-ab", "mov-ba"} {
		go func(id string) {
			_, err := uc.Commit(context.Background(), id)
			done <- err
		}(id)
	}

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("deadlock: los transfers cruzados no completaron; el orden de locks no es global")
		}
	}

	a := store.getLevel("prod-1", "loc-A")
	b := store.getLevel("prod-1", "loc-B")
	assert.True(t, a.OnHand.Equal(decimal.NewFromInt(10)), "4 salieron y 4 entraron en loc-A")
	assert.True(t, b.OnHand.Equal(decimal.NewFromInt(10)))
}

// Dos goroutines intentan commitear el MISMO movimiento: el lock de fila del
// libro serializa; una valida y la otra recibe ErrAlreadyFinalized.
func TestCommit_MismoMovimientoConcurrente(t *testing.T) {
	store, uc := newCommitFixture()
	seedDraft(store, "mov-1", entity.DocumentTypeRECEIPT, "", "loc-A", 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Commit(context.Background(), "mov-1")
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
		}
	}
	assert.Equal(t, 1, okCount)

	level := store.getLevel("prod-1", "loc-A")
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)), "el ingreso se aplicó exactamente una vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación: el nivel materializado es siempre la suma de los movimientos
// VALIDATED que tocan el par.
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_Reconciliacion_NivelIgualASumaDelLibro(t *testing.T) {
	store, uc := newCommitFixture()
	ctx := context.Background()

	movs := []struct {
		id       string
		docType  string
		src, dst string
		qty      int64
	}{
		{"m1", entity.DocumentTypeRECEIPT, "", "loc-A", 20},
		{"m2", entity.DocumentTypeDELIVERY, "loc-A", "", 5},
		{"m3", entity.DocumentTypeINTERNALTRANSFER, "loc-A", "loc-B", 8},
		{"m4", entity.DocumentTypeADJUSTMENT, "loc-A", "", -2},
		{"m5", entity.DocumentTypeADJUSTMENT, "", "loc-B", 3},
		{"m6", entity.DocumentTypeDELIVERY, "loc-A", "", 100}, // rechazado: no cuenta
	}
	for _, m := range movs {
		seedDraft(store, m.id, m.docType, m.src, m.dst, m.qty)
		uc.Commit(ctx, m.id)
	}

	// loc-A: +20 -5 -8 -2 = 5; loc-B: +8 +3 = 11.
	a := store.getLevel("prod-1", "loc-A")
	b := store.getLevel("prod-1", "loc-B")
	assert.True(t, a.OnHand.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.OnHand.Equal(decimal.NewFromInt(11)))

	// El movimiento rechazado quedó en DRAFT, fuera de la suma.
	assert.Equal(t, entity.StatusDraft, store.getEntry("m6").Status)
}
