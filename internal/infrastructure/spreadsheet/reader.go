// Package spreadsheet lee las planillas .xlsx de ingesta con excelize.
package spreadsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
)

var _ lending.SheetReader = (*Reader)(nil)

// dateLayouts formatos de fecha aceptados como texto.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"2/1/2006",
}

// Reader lee la primera hoja de un libro; la primera fila son los encabezados.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// ReadRecords devuelve las filas no vacías con los encabezados normalizados.
func (r *Reader) ReadRecords(ctx context.Context, path string) ([]lending.SheetRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s no tiene hojas", path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = lending.NormalizeHeader(h)
	}

	out := make([]lending.SheetRecord, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(headers))
		empty := true
		for j, h := range headers {
			if h == "" || j >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[j])
			if v != "" {
				empty = false
			}
			fields[h] = v
		}
		if empty {
			continue
		}
		// i=0 es la fila 2 de la hoja
		out = append(out, lending.SheetRecord{Line: i + 2, Fields: fields})
	}
	return out, nil
}

// ParseDate acepta texto en los formatos de dateLayouts o el serial numérico de Excel.
func (r *Reader) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha no reconocida %q", raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("serial de fecha %q: %w", raw, err)
	}
	return t.Round(time.Second), nil
}
