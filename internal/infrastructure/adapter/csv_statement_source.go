package adapter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// csvDateLayout is the date format bank exports use in the first column.
const csvDateLayout = "2006-01-02"

// CSVStatementSource implements port.StatementImportSource over a directory
// of per-account CSV exports. The file for an account is <dir>/<account>.csv
// with the columns date, amount, currency, type, description. It is designed
// to be swapped with an open-banking or SFTP-based source without touching
// the import use case.
type CSVStatementSource struct {
	dir string
}

var _ port.StatementImportSource = (*CSVStatementSource)(nil)

// NewCSVStatementSource creates a source reading from the given directory.
func NewCSVStatementSource(dir string) *CSVStatementSource {
	return &CSVStatementSource{dir: dir}
}

// Fetch parses the account's CSV export and returns the items whose date
// falls inside [from, to]. Rows outside the period are skipped, not an error.
func (s *CSVStatementSource) Fetch(ctx context.Context, accountName string, from, to time.Time) ([]model.StatementItem, error) {
	path := filepath.Join(s.dir, accountName+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read statement header: %w", err)
	}
	if !strings.EqualFold(header[0], "date") {
		return nil, fmt.Errorf("unexpected statement header %q", strings.Join(header, ","))
	}

	var items []model.StatementItem
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read statement line %d: %w", line, err)
		}

		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", line, err)
		}
		if item.Date.Before(from) || item.Date.After(to) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(record []string) (model.StatementItem, error) {
	date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return model.StatementItem{}, fmt.Errorf("parse date %q: %w", record[0], err)
	}

	amount, err := money.NewFromString(strings.TrimSpace(record[1]), strings.TrimSpace(record[2]))
	if err != nil {
		return model.StatementItem{}, fmt.Errorf("parse amount: %w", err)
	}
	if !amount.IsPositive() {
		return model.StatementItem{}, fmt.Errorf("amount %s must be positive", amount)
	}

	itemType := model.StatementItemType(strings.ToUpper(strings.TrimSpace(record[3])))
	if itemType != model.StatementItemDebit && itemType != model.StatementItemCredit {
		return model.StatementItem{}, fmt.Errorf("unknown item type %q", record[3])
	}

	return model.StatementItem{
		Date:        date,
		Amount:      amount,
		Type:        itemType,
		Description: strings.TrimSpace(record[4]),
	}, nil
}
