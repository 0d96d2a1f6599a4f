package usecases

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"project_resident/internal/entities"
)

const maxImportRows = 5000

var importHeaders = map[string][]string{
	"name":  {"name", "title", "product", "item", "наименование", "название", "товар"},
	"price": {"price", "cost", "цена", "стоимость"},
	"unit":  {"unit", "uom", "ед", "ед.", "ед. изм.", "единица"},
	"sku":   {"sku", "code", "article", "артикул", "код"},
}

// ParsePriceCents converts a human price ("1 299,90 ₽", "$12.5", "1,234.56")
// into cents. When both separators appear the last one is the decimal mark;
// a single comma is a decimal mark.
func ParsePriceCents(raw string) (int64, error) {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			sb.WriteRune(r)
		}
	}
	s := sb.String()
	if strings.Trim(s, ".,-") == "" {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidInput, raw)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative price %q", ErrInvalidInput, raw)
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	decimal := byte(0)
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal = s[max(lastDot, lastComma)]
	case lastComma >= 0 && strings.Count(s, ",") == 1:
		decimal = ','
	case lastDot >= 0 && strings.Count(s, ".") == 1:
		decimal = '.'
	}

	intPart, fracPart := s, ""
	if decimal != 0 {
		i := strings.LastIndexByte(s, decimal)
		intPart, fracPart = s[:i], s[i+1:]
	}
	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidInput, raw)
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidInput, raw)
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("%w: price %q is too large", ErrInvalidInput, raw)
	}
	return units*100 + cents, nil
}

// detectDelimiter picks ';' or ',' by counting them in the first line.
func detectDelimiter(data []byte) rune {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// headerColumns maps known column names to their index. ok is false when the
// first record does not look like a header.
func headerColumns(record []string) (map[string]int, bool) {
	cols := map[string]int{}
	for i, cell := range record {
		h := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		for key, aliases := range importHeaders {
			if _, seen := cols[key]; seen {
				continue
			}
			for _, a := range aliases {
				if h == a {
					cols[key] = i
				}
			}
		}
	}
	_, hasName := cols["name"]
	_, hasPrice := cols["price"]
	return cols, hasName && hasPrice
}

// ParsePriceCSV reads price rows from CSV. Without a recognised header the
// columns are taken as name, price, unit, sku.
func ParsePriceCSV(r io.Reader) ([]entities.PriceListRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv is empty", ErrInvalidInput)
	}

	cols, hasHeader := headerColumns(records[0])
	if hasHeader {
		records = records[1:]
	} else {
		cols = map[string]int{"name": 0, "price": 1, "unit": 2, "sku": 3}
	}
	if len(records) > maxImportRows {
		return nil, fmt.Errorf("%w: csv has more than %d rows", ErrInvalidInput, maxImportRows)
	}

	cell := func(record []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]entities.PriceListRow, 0, len(records))
	for n, record := range records {
		name := cell(record, "name")
		if name == "" {
			continue
		}
		price, err := ParsePriceCents(cell(record, "price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		rows = append(rows, entities.PriceListRow{
			Name:       name,
			Unit:       cell(record, "unit"),
			PriceCents: price,
			SKU:        cell(record, "sku"),
			Position:   len(rows),
		})
	}
	return rows, nil
}
