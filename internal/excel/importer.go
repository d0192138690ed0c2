package excel

import (
	"context"

	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/sync"
	"fieldlex-client/pkg/errors"

	"github.com/rs/zerolog"
)

// ImportReport summarizes one spreadsheet import.
type ImportReport struct {
	Delivered int `json:"delivered"`
	Queued    int `json:"queued"`
	Invalid   int `json:"invalid"`
	Failed    int `json:"failed"`
}

type Importer struct {
	parser *Parser
	svc    *sync.Service
	log    zerolog.Logger
}

func NewImporter(svc *sync.Service) *Importer {
	return &Importer{
		parser: NewParser(),
		svc:    svc,
		log:    logger.Component("import"),
	}
}

// Import feeds every spreadsheet row through the submission pipeline.
// Rows that fail delivery queue offline exactly like interactive
// submissions; invalid rows are counted and skipped without a network call.
func (i *Importer) Import(ctx context.Context, data []byte) (*ImportReport, error) {
	forms, err := i.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for idx, form := range forms {
		outcome, err := i.svc.Submit(ctx, form)
		if err != nil {
			if errors.KindOf(err) == errors.KindValidation {
				report.Invalid++
				i.log.Warn().Err(err).Int("row", idx+2).Msg("Skipping invalid row")
				continue
			}
			report.Failed++
			i.log.Error().Err(err).Int("row", idx+2).Msg("Row import failed")
			continue
		}

		if outcome.Queued {
			report.Queued++
		} else {
			report.Delivered++
		}
	}

	i.log.Info().
		Int("delivered", report.Delivered).
		Int("queued", report.Queued).
		Int("invalid", report.Invalid).
		Int("failed", report.Failed).
		Msg("Spreadsheet import completed")

	return report, nil
}
