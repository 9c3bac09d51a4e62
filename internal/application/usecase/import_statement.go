package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// ImportStatementUseCase pulls one statement period from the import source,
// snapshots it and opens a reconciliation session over the same period.
type ImportStatementUseCase struct {
	source             port.StatementImportSource
	statementRepo      port.StatementRepository
	reconciliationRepo port.ReconciliationRepository
	publisher          port.EventPublisher
	clock              port.Clock
}

// NewImportStatementUseCase wires dependencies.
func NewImportStatementUseCase(
	source port.StatementImportSource,
	statementRepo port.StatementRepository,
	reconciliationRepo port.ReconciliationRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *ImportStatementUseCase {
	return &ImportStatementUseCase{
		source:             source,
		statementRepo:      statementRepo,
		reconciliationRepo: reconciliationRepo,
		publisher:          publisher,
		clock:              clock,
	}
}

// Execute imports the statement and opens its session.
func (uc *ImportStatementUseCase) Execute(
	ctx context.Context,
	req dto.ImportStatementRequest,
) (dto.ImportStatementResponse, error) {
	now := uc.clock.Now()

	// 1. Fetch the period's items from the bank.
	items, err := uc.source.Fetch(ctx, req.AccountName, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("fetch statement items: %w", err)
	}

	// 2. Snapshot the statement.
	statement, err := model.NewBankStatement(req.AccountName, req.PeriodStart, req.PeriodEnd, items, now)
	if err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("import statement: %w", err)
	}
	if err := uc.statementRepo.Save(ctx, statement); err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("save statement: %w", err)
	}

	// 3. Open the reconciliation session over the system side of the period.
	transactions, err := uc.reconciliationRepo.ListSystemTransactions(ctx, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("list system transactions: %w", err)
	}
	session, err := model.NewReconciliation(statement.ID, req.PeriodStart, req.PeriodEnd, len(transactions), now)
	if err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("open reconciliation: %w", err)
	}
	if err := uc.reconciliationRepo.Save(ctx, session); err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("save reconciliation: %w", err)
	}

	// 4. Publish.
	imported := event.NewStatementImported(statement.ID, len(statement.Items))
	if err := uc.publisher.Publish(ctx, imported); err != nil {
		return dto.ImportStatementResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.ImportStatementResponse{
		StatementID:      statement.ID,
		ReconciliationID: session.ID(),
		ItemCount:        len(statement.Items),
		TransactionCount: len(transactions),
	}, nil
}
