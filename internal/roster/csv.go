package roster

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/leadqual/internal/model"
)

// Column aliases seen across LinkedIn, Outlook, and CRM exports.
var (
	emailColumns     = []string{"email", "e-mail", "email address", "e-mail address"}
	nameColumns      = []string{"name", "full name", "display name"}
	firstNameColumns = []string{"first name", "given name"}
	lastNameColumns  = []string{"last name", "surname", "family name"}
	companyColumns   = []string{"company", "organization", "organisation", "employer"}
)

// parseCSV reads a roster CSV. Exports from older tools arrive in
// Windows-1252; invalid UTF-8 input is decoded through that charset first.
func parseCSV(data []byte) ([]model.Contact, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, eris.Wrap(err, "roster: decode windows-1252")
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "roster: read csv header")
	}

	cols := indexColumns(header)
	if cols.email < 0 {
		return nil, eris.New("roster: no email column found")
	}

	var contacts []model.Contact
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "roster: read csv row")
		}
		if c, ok := cols.toContact(record, header); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

// columnIndex holds the positions of the recognized roster columns; -1 marks
// an absent column.
type columnIndex struct {
	email     int
	name      int
	firstName int
	lastName  int
	company   int
}

func indexColumns(header []string) columnIndex {
	cols := columnIndex{email: -1, name: -1, firstName: -1, lastName: -1, company: -1}
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.email < 0 && matchesAny(normalized, emailColumns):
			cols.email = i
		case cols.name < 0 && matchesAny(normalized, nameColumns):
			cols.name = i
		case cols.firstName < 0 && matchesAny(normalized, firstNameColumns):
			cols.firstName = i
		case cols.lastName < 0 && matchesAny(normalized, lastNameColumns):
			cols.lastName = i
		case cols.company < 0 && matchesAny(normalized, companyColumns):
			cols.company = i
		}
	}
	return cols
}

func matchesAny(value string, aliases []string) bool {
	for _, a := range aliases {
		if value == a {
			return true
		}
	}
	return false
}

// toContact maps one row to a Contact. Rows without an email are dropped.
// Unrecognized columns land in Extra so nothing from the export is lost.
func (c columnIndex) toContact(record, header []string) (model.Contact, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	email := get(c.email)
	if email == "" || !strings.Contains(email, "@") {
		return model.Contact{}, false
	}

	name := get(c.name)
	if name == "" {
		name = strings.TrimSpace(get(c.firstName) + " " + get(c.lastName))
	}

	contact := model.Contact{
		Name:    name,
		Email:   email,
		Company: get(c.company),
	}

	known := map[int]struct{}{c.email: {}, c.name: {}, c.firstName: {}, c.lastName: {}, c.company: {}}
	for i, field := range record {
		if _, ok := known[i]; ok {
			continue
		}
		field = strings.TrimSpace(field)
		if field == "" || i >= len(header) {
			continue
		}
		if contact.Extra == nil {
			contact.Extra = make(map[string]string)
		}
		contact.Extra[strings.TrimSpace(header[i])] = field
	}
	return contact, true
}
