// Package excel imports coordinator spreadsheets: one row per collected
// word, fed through the same submission pipeline as interactive entries.
package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"fieldlex-client/internal/model"
	"fieldlex-client/pkg/errors"

	"github.com/xuri/excelize/v2"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

var requiredColumns = []string{
	"word_id", "language_id", "district_id", "tehsil_id", "village_id", "regional_text",
}

// Parse reads the first worksheet into form states. Identifier cells may
// hold either canonical ids or legacy numeric ids; purely numeric values
// are treated as legacy.
func (p *Parser) Parse(data []byte) ([]model.FormState, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) < 2 { // Header + at least one data row
		return nil, errors.ErrInvalidFormat
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var forms []model.FormState
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		form, err := parseRow(row, columnMap)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+2, err)
		}

		forms = append(forms, *form)
	}

	return forms, nil
}

func parseRow(row []string, columnMap map[string]int) (*model.FormState, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	form := &model.FormState{
		Word:         parseRef(getValue("word_id")),
		Language:     parseRef(getValue("language_id")),
		District:     parseRef(getValue("district_id")),
		Tehsil:       parseRef(getValue("tehsil_id")),
		Village:      parseRef(getValue("village_id")),
		RegionalText: getValue("regional_text"),
	}

	// Optional column: a path to a recording captured outside the app.
	form.AudioPath = getValue("audio_path")

	return form, nil
}

// parseRef builds an EntityRef from a cell value. A value of pure digits is
// a legacy numeric id; anything else is taken as canonical.
func parseRef(value string) model.EntityRef {
	if value == "" {
		return model.EntityRef{}
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return model.EntityRef{LegacyID: n}
	}
	return model.EntityRef{CanonicalID: value}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
