package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

var movementCols = []string{
	"id", "batch_id", "product_id", "quantity", "source_location_id", "dest_location_id",
	"status", "created_at", "expected_delivery_at", "actual_delivery_at", "notes", "evidence_ref", "created_by",
}

type StockMovementRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       *StockMovementRepo
	ctx        context.Context
	movementID string
	batchID    string
	sourceID   string
	destID     string
	productID  string
}

func (s *StockMovementRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(s.T(), err)
	s.mock = mock
	s.repo = NewStockMovementRepository(mock)
	s.ctx = context.Background()
	s.movementID = "00000000-0000-0000-0000-00000000c001"
	s.batchID = "00000000-0000-0000-0000-00000000d001"
	s.sourceID = "00000000-0000-0000-0000-00000000a001"
	s.destID = "00000000-0000-0000-0000-00000000a002"
	s.productID = "00000000-0000-0000-0000-00000000b001"
}

func (s *StockMovementRepoTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestStockMovementRepoTestSuite(t *testing.T) {
	suite.Run(t, new(StockMovementRepoTestSuite))
}

func (s *StockMovementRepoTestSuite) movementRow(status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(movementCols).AddRow(
		s.movementID, s.batchID, s.productID, int64(4), s.sourceID, s.destID,
		status, now, now.Add(time.Hour), nil, "", nil, "user-1",
	)
}

func (s *StockMovementRepoTestSuite) TestCreate() {
	now := time.Now()
	m := &entity.StockMovement{
		ID:                 s.movementID,
		BatchID:            s.batchID,
		ProductID:          s.productID,
		Quantity:           4,
		SourceLocationID:   s.sourceID,
		DestLocationID:     s.destID,
		Status:             entity.MovementStatusSent,
		CreatedAt:          now,
		ExpectedDeliveryAt: now.Add(time.Hour),
		CreatedBy:          "user-1",
	}

	s.mock.ExpectExec(`INSERT INTO stock_movements`).
		WithArgs(m.ID, m.BatchID, m.ProductID, m.Quantity, m.SourceLocationID, m.DestLocationID,
			m.Status, m.CreatedAt, m.ExpectedDeliveryAt, m.ActualDeliveryAt, m.Notes, m.EvidenceRef, m.CreatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(s.T(), s.repo.Create(s.ctx, m))
}

func (s *StockMovementRepoTestSuite) TestGetByID_Encontrado() {
	s.mock.ExpectQuery(`FROM stock_movements WHERE id = \$1`).
		WithArgs(s.movementID).
		WillReturnRows(s.movementRow(entity.MovementStatusSent))

	m, err := s.repo.GetByID(s.ctx, s.movementID)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), m)
	assert.Equal(s.T(), entity.MovementStatusSent, m.Status)
	assert.Equal(s.T(), int64(4), m.Quantity)
	assert.True(s.T(), m.Pending())
}

func (s *StockMovementRepoTestSuite) TestGetByID_NoExiste() {
	s.mock.ExpectQuery(`FROM stock_movements WHERE id = \$1`).
		WithArgs(s.movementID).
		WillReturnRows(pgxmock.NewRows(movementCols))

	m, err := s.repo.GetByID(s.ctx, s.movementID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), m)
}

func (s *StockMovementRepoTestSuite) TestListPending_MasAntiguosPrimero() {
	s.mock.ExpectQuery(`FROM stock_movements\s+WHERE dest_location_id = \$1 AND status = \$2\s+ORDER BY created_at ASC`).
		WithArgs(s.destID, entity.MovementStatusSent).
		WillReturnRows(s.movementRow(entity.MovementStatusSent))

	list, err := s.repo.ListPending(s.ctx, s.destID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *StockMovementRepoTestSuite) TestMarkResolved_TransicionGanadora() {
	deliveredAt := time.Now()
	s.mock.ExpectExec(`UPDATE stock_movements\s+SET status = \$2, actual_delivery_at = \$3, notes = \$4, evidence_ref = COALESCE\(\$5, evidence_ref\)\s+WHERE id = \$1 AND status = \$6`).
		WithArgs(s.movementID, entity.MovementStatusReceived, deliveredAt, "", (*string)(nil), entity.MovementStatusSent).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.repo.MarkResolved(s.ctx, s.movementID, entity.MovementStatusReceived, deliveredAt, "", nil)
	assert.NoError(s.T(), err)
}

// La segunda resolución no afecta filas: el repo consulta el estado actual y
// devuelve el error tipado con el estado que ganó.
func (s *StockMovementRepoTestSuite) TestMarkResolved_YaResuelto() {
	deliveredAt := time.Now()
	s.mock.ExpectExec(`UPDATE stock_movements`).
		WithArgs(s.movementID, entity.MovementStatusRejected, deliveredAt, "REJECTED: caja rota", (*string)(nil), entity.MovementStatusSent).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	s.mock.ExpectQuery(`FROM stock_movements WHERE id = \$1`).
		WithArgs(s.movementID).
		WillReturnRows(s.movementRow(entity.MovementStatusReceived))

	err := s.repo.MarkResolved(s.ctx, s.movementID, entity.MovementStatusRejected, deliveredAt, "REJECTED: caja rota", nil)
	assert.ErrorIs(s.T(), err, domain.ErrInvalidState)

	var stateErr *domain.MovementStateError
	assert.ErrorAs(s.T(), err, &stateErr)
	assert.Equal(s.T(), entity.MovementStatusReceived, stateErr.Status)
}

func (s *StockMovementRepoTestSuite) TestMarkResolved_MovimientoInexistente() {
	deliveredAt := time.Now()
	s.mock.ExpectExec(`UPDATE stock_movements`).
		WithArgs(s.movementID, entity.MovementStatusReceived, deliveredAt, "", (*string)(nil), entity.MovementStatusSent).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	s.mock.ExpectQuery(`FROM stock_movements WHERE id = \$1`).
		WithArgs(s.movementID).
		WillReturnRows(pgxmock.NewRows(movementCols))

	err := s.repo.MarkResolved(s.ctx, s.movementID, entity.MovementStatusReceived, deliveredAt, "", nil)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

// returned no es un destino válido de la transición: se corta antes de tocar la base.
func (s *StockMovementRepoTestSuite) TestMarkResolved_DestinoInvalido() {
	err := s.repo.MarkResolved(s.ctx, s.movementID, entity.MovementStatusReturned, time.Now(), "", nil)
	assert.ErrorIs(s.T(), err, domain.ErrInvalidInput)
}

func (s *StockMovementRepoTestSuite) TestSumInFlightByProduct() {
	s.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM stock_movements\s+WHERE product_id = \$1 AND status = \$2`).
		WithArgs(s.productID, entity.MovementStatusSent).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(30)))

	total, err := s.repo.SumInFlightByProduct(s.ctx, s.productID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(30), total)
}

func (s *StockMovementRepoTestSuite) TestListByBatch() {
	s.mock.ExpectQuery(`FROM stock_movements\s+WHERE batch_id = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(s.batchID).
		WillReturnRows(s.movementRow(entity.MovementStatusSent))

	list, err := s.repo.ListByBatch(s.ctx, s.batchID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
	assert.Equal(s.T(), s.batchID, list[0].BatchID)
}
