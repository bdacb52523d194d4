package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

func stockOf(t *testing.T, r Repositories, productID, storeID string) decimal.Decimal {
	t.Helper()
	st, err := r.Stock.Get(context.Background(), productID, storeID)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st.Quantity
}

func TestTxRunner_Commit(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Repositories()
	require.NoError(t, r.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", StoreID: "s1", Quantity: decimal.NewFromInt(10)}))

	err := r.Tx.Run(ctx, func(tx repository.TxRepos) error {
		return tx.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", StoreID: "s1", Quantity: decimal.NewFromInt(7)})
	})
	require.NoError(t, err)
	assert.True(t, stockOf(t, r, "p1", "s1").Equal(decimal.NewFromInt(7)))
}

func TestTxRunner_RollbackConservaEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Repositories()
	company := &entity.Company{Name: "Tiendas Demo", NIT: "900123456"}
	require.NoError(t, r.Companies.Create(ctx, company))
	require.NoError(t, r.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", StoreID: "s1", Quantity: decimal.NewFromInt(10)}))

	inside := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- r.Tx.Run(ctx, func(tx repository.TxRepos) error {
			err := tx.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", StoreID: "s1", Quantity: decimal.NewFromInt(3)})
			if err != nil {
				return err
			}
			close(inside)
			<-release
			return domain.ErrInsufficientStock
		})
	}()
	<-inside

	// Fuera de la transacción no se ve el stock sin confirmar.
	assert.True(t, stockOf(t, r, "p1", "s1").Equal(decimal.NewFromInt(10)))

	created := make(chan error, 1)
	go func() {
		created <- r.Customers.Create(ctx, &entity.Customer{ID: "c-fuera", CompanyID: company.ID, Name: "Ana Cliente"})
	}()
	close(release)

	require.ErrorIs(t, <-txDone, domain.ErrInsufficientStock)
	require.NoError(t, <-created)

	c, err := r.Customers.GetByID(ctx, "c-fuera")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ana Cliente", c.Name)
	assert.True(t, stockOf(t, r, "p1", "s1").Equal(decimal.NewFromInt(10)))
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewStore().Repositories()
	called := false
	err := r.Tx.Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
