package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuerier guarda las consultas y responde sin filas.
type recordingQuerier struct {
	queries []string
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return nil, pgx.ErrNoRows
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return noRow{}
}

func (q *recordingQuerier) Begin(context.Context) (pgx.Tx, error) {
	return nil, pgx.ErrTxClosed
}

func (q *recordingQuerier) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, q.queries)
	return strings.TrimSpace(q.queries[len(q.queries)-1])
}

func TestGetByIDForUpdate_BloqueaLaFila(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name      string
		get       func(q Querier) error
		forUpdate func(q Querier) error
	}{
		{
			name:      "ventas",
			get:       func(q Querier) error { _, err := NewSaleRepository(q).GetByID(ctx, "s-1"); return err },
			forUpdate: func(q Querier) error { _, err := NewSaleRepository(q).GetByIDForUpdate(ctx, "s-1"); return err },
		},
		{
			name:      "traslados",
			get:       func(q Querier) error { _, err := NewTransferRepository(q).GetByID(ctx, "t-1"); return err },
			forUpdate: func(q Querier) error { _, err := NewTransferRepository(q).GetByIDForUpdate(ctx, "t-1"); return err },
		},
		{
			name:      "órdenes de compra",
			get:       func(q Querier) error { _, err := NewPurchaseOrderRepository(q).GetByID(ctx, "po-1"); return err },
			forUpdate: func(q Querier) error { _, err := NewPurchaseOrderRepository(q).GetByIDForUpdate(ctx, "po-1"); return err },
		},
		{
			name:      "turnos de caja",
			get:       func(q Querier) error { _, err := NewCashSessionRepository(q).GetByID(ctx, "cs-1"); return err },
			forUpdate: func(q Querier) error { _, err := NewCashSessionRepository(q).GetByIDForUpdate(ctx, "cs-1"); return err },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &recordingQuerier{}
			require.NoError(t, tc.get(q))
			assert.NotContains(t, q.last(t), "FOR UPDATE")

			require.NoError(t, tc.forUpdate(q))
			assert.True(t, strings.HasSuffix(q.last(t), "FOR UPDATE"), "consulta sin bloqueo: %s", q.last(t))
		})
	}
}
