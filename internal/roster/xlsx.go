package roster

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadqual/internal/model"
)

// parseXLSX reads the first sheet of an XLSX roster export. The first row is
// the header; the same column aliases as the CSV path apply.
func parseXLSX(data []byte) ([]model.Contact, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("roster: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := rowToStrings(sheet.Rows[0])
	cols := indexColumns(header)
	if cols.email < 0 {
		return nil, eris.New("roster: no email column found")
	}

	var contacts []model.Contact
	for _, row := range sheet.Rows[1:] {
		if c, ok := cols.toContact(rowToStrings(row), header); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
