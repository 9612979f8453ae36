package roster

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, value := range cells {
			row.AddCell().Value = value
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, [][]string{
		{"First Name", "Last Name", "Email", "Company"},
		{"Jane", "Doe", "jane@acme.com", "Acme GmbH"},
		{"", "", "", ""},
		{"Bob", "Smith", "bob@other.com", "Other Inc"},
	})

	contacts, err := parseXLSX(data)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "Jane Doe", contacts[0].Name)
	assert.Equal(t, "jane@acme.com", contacts[0].Email)
	assert.Equal(t, "Acme GmbH", contacts[0].Company)
	assert.Equal(t, "bob@other.com", contacts[1].Email)
}

func TestParseXLSXNoEmailColumn(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, [][]string{
		{"Name", "Phone"},
		{"Jane", "555-0100"},
	})

	_, err := parseXLSX(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email column")
}

func TestParseXLSXNotAnArchive(t *testing.T) {
	t.Parallel()

	_, err := parseXLSX([]byte("this is not a zip file"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open xlsx")
}
