// Package mirror keeps a delimited text copy of selected database tables,
// one file per table, written after the database commit. The copy is advisory:
// no method returns an error and failures are only logged.
package mirror

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"techdesk_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// DateLayout is used for every date value written to a mirror file.
const DateLayout = "2006-01-02"

// Record maps a field name to its value.
type Record map[string]any

// Mirror writes table files under a single directory.
type Mirror struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a mirror rooted at dir. The directory is created on first write.
func New(dir string) *Mirror {
	return &Mirror{dir: dir, locks: make(map[string]*sync.Mutex)}
}

// Path returns the file backing table.
func (m *Mirror) Path(table string) string {
	return filepath.Join(m.dir, strings.ToUpper(table)+".txt")
}

func (m *Mirror) lock(table string) func() {
	m.mu.Lock()
	l, ok := m.locks[strings.ToUpper(table)]
	if !ok {
		l = &sync.Mutex{}
		m.locks[strings.ToUpper(table)] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Create appends record, writing the header first when the file is new.
func (m *Mirror) Create(table string, record Record, fields []string) {
	unlock := m.lock(table)
	defer unlock()

	if err := m.appendRow(table, record, fields); err != nil {
		utils.LogError(err, "MIRROR: create failed", map[string]interface{}{"table": table, "record": record})
		return
	}
	utils.LogDebug("MIRROR: record created", map[string]interface{}{"table": table})
}

// Update replaces the row whose keyField (default: first field) equals key.
// A missing row is appended; a missing file is created.
func (m *Mirror) Update(table string, key any, record Record, fields []string, keyField ...string) {
	unlock := m.lock(table)
	defer unlock()

	idField := resolveKeyField(fields, keyField)
	keyStr := FormatValue(key)

	header, rows, err := m.readAll(table)
	if errors.Is(err, os.ErrNotExist) {
		utils.LogWarn("MIRROR: file not found for update, creating it", map[string]interface{}{"table": table})
		if err := m.appendRow(table, record, fields); err != nil {
			utils.LogError(err, "MIRROR: update failed", map[string]interface{}{"table": table, "key": keyStr})
		}
		return
	}
	if err != nil {
		utils.LogError(err, "MIRROR: update failed", map[string]interface{}{"table": table, "key": keyStr})
		return
	}

	out := make([][]string, 0, len(rows)+1)
	found := false
	for _, row := range rows {
		byName := rowMap(header, row)
		if byName[idField] == keyStr {
			out = append(out, recordRow(record, fields))
			found = true
			continue
		}
		out = append(out, projectRow(byName, fields))
	}
	if !found {
		out = append(out, recordRow(record, fields))
		utils.LogInfo("MIRROR: record not found, appended as new", map[string]interface{}{"table": table, idField: keyStr})
	}

	if err := m.rewrite(table, fields, out); err != nil {
		utils.LogError(err, "MIRROR: update failed", map[string]interface{}{"table": table, "key": keyStr})
		return
	}
	if found {
		utils.LogDebug("MIRROR: record updated", map[string]interface{}{"table": table, idField: keyStr})
	}
}

// Delete rewrites the file without the rows whose keyField equals key.
func (m *Mirror) Delete(table string, key any, fields []string, keyField ...string) {
	unlock := m.lock(table)
	defer unlock()

	idField := resolveKeyField(fields, keyField)
	keyStr := FormatValue(key)

	header, rows, err := m.readAll(table)
	if errors.Is(err, os.ErrNotExist) {
		utils.LogWarn("MIRROR: file not found for delete", map[string]interface{}{"table": table})
		return
	}
	if err != nil {
		utils.LogError(err, "MIRROR: delete failed", map[string]interface{}{"table": table, "key": keyStr})
		return
	}

	kept := make([][]string, 0, len(rows))
	deleted := false
	for _, row := range rows {
		byName := rowMap(header, row)
		if byName[idField] == keyStr {
			deleted = true
			continue
		}
		kept = append(kept, projectRow(byName, fields))
	}

	if err := m.rewrite(table, fields, kept); err != nil {
		utils.LogError(err, "MIRROR: delete failed", map[string]interface{}{"table": table, "key": keyStr})
		return
	}
	if deleted {
		utils.LogDebug("MIRROR: record deleted", map[string]interface{}{"table": table, idField: keyStr})
	} else {
		utils.LogWarn("MIRROR: record not found for delete", map[string]interface{}{"table": table, idField: keyStr})
	}
}

// Rebuild replaces the whole file with records.
func (m *Mirror) Rebuild(table string, fields []string, records []Record) error {
	unlock := m.lock(table)
	defer unlock()

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r, fields))
	}
	if err := m.rewrite(table, fields, rows); err != nil {
		utils.LogError(err, "MIRROR: rebuild failed", map[string]interface{}{"table": table})
		return err
	}
	utils.LogInfo("MIRROR: table rebuilt", map[string]interface{}{"table": table, "rows": len(rows)})
	return nil
}

func (m *Mirror) appendRow(table string, record Record, fields []string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating mirror dir: %w", err)
	}
	path := m.Path(table)
	_, statErr := os.Stat(path)
	newFile := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(fields); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Write(recordRow(record, fields)); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Mirror) readAll(table string) ([]string, [][]string, error) {
	f, err := os.Open(m.Path(table))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rows: %w", err)
	}
	return header, rows, nil
}

// rewrite replaces the file through a temporary file in the same directory.
func (m *Mirror) rewrite(table string, fields []string, rows [][]string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating mirror dir: %w", err)
	}
	tmp, err := os.CreateTemp(m.dir, strings.ToUpper(table)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(fields); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), m.Path(table))
}

func resolveKeyField(fields, keyField []string) string {
	if len(keyField) > 0 && keyField[0] != "" {
		return keyField[0]
	}
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func rowMap(header, row []string) map[string]string {
	out := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			out[h] = row[i]
		}
	}
	return out
}

func projectRow(byName map[string]string, fields []string) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = byName[f]
	}
	return row
}

func recordRow(record Record, fields []string) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = FormatValue(record[f])
	}
	return row
}

// FormatValue renders a value the way it is stored in a mirror file.
func FormatValue(v any) string {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return FormatValue(rv.Elem().Interface())
	}

	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
