package fetcher

import (
	"bytes"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"TaifexDaily/internal/model"
	"TaifexDaily/internal/parser"
)

// PositionConfig describes the TAIFEX institutional positions endpoint and
// the labels used to locate the instrument/counterparty row.
type PositionConfig struct {
	URL            string
	QueryType      string // report mode parameter, "1" = by contract
	Instrument     string // e.g. "臺股期貨"
	Counterparty   string // e.g. "外資"
	FallbackOffset int    // first data column when the anchor cell is absent
}

// TaifexPosition fetches one counterparty's aggregate net position from the
// TAIFEX institutional trader report.
type TaifexPosition struct {
	cfg    PositionConfig
	client *httpClient
}

// NewTaifexPosition creates the position fetcher.
func NewTaifexPosition(cfg PositionConfig, opts ClientOptions) *TaifexPosition {
	if cfg.FallbackOffset <= 0 {
		// serial, instrument, counterparty, then data columns
		cfg.FallbackOffset = 3
	}
	return &TaifexPosition{cfg: cfg, client: newHTTPClient(opts)}
}

func (f *TaifexPosition) Name() string { return "taifex-position" }

// FetchPosition returns {long volume, long notional, short volume, short
// notional} for the configured counterparty. The report nests several
// tables and shifts columns across site versions, so the row is found by
// label and the data cells are anchored on the counterparty cell.
func (f *TaifexPosition) FetchPosition(date time.Time) (*model.Position, error) {
	form := url.Values{
		"queryType": {f.cfg.QueryType},
		"queryDate": {date.Format("2006/01/02")},
	}
	body, err := f.client.postForm(f.cfg.URL, form)
	if err != nil {
		return nil, &model.FetchError{
			Endpoint: f.Name(),
			Attempts: f.client.opts.MaxRetries + 1,
			Err:      err,
		}
	}

	tables, err := parser.ParseTables(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}

	for _, tbl := range tables {
		row, ok := tbl.FindRow([]string{f.cfg.Instrument, f.cfg.Counterparty}, nil)
		if ok {
			return f.extract(row)
		}
		// Some versions render the counterparty as a row header outside the
		// scanned cells; fall back to the instrument row at a fixed offset.
		if row, ok = tbl.FindRow([]string{f.cfg.Instrument}, nil); ok {
			log.Printf("[WARN] %s: %q anchor not found, falling back to fixed offset %d",
				f.Name(), f.cfg.Counterparty, f.cfg.FallbackOffset)
			return f.extractAt(row)
		}
	}
	return nil, fmt.Errorf("%s: no %s/%s row in any table",
		f.Name(), f.cfg.Instrument, f.cfg.Counterparty)
}

func (f *TaifexPosition) extract(row parser.Row) (*model.Position, error) {
	cells, ok := row.CellsAfter(f.cfg.Counterparty, 4)
	if !ok {
		return nil, &model.InvariantViolationError{
			Endpoint: f.Name(),
			Detail:   "counterparty row too short",
			Raw:      strings.Join(row, "|"),
		}
	}
	return f.build(cells, row)
}

func (f *TaifexPosition) extractAt(row parser.Row) (*model.Position, error) {
	cells, ok := row.CellsAt(f.cfg.FallbackOffset, 4)
	if !ok {
		return nil, &model.InvariantViolationError{
			Endpoint: f.Name(),
			Detail:   "instrument row too short for fallback offset",
			Raw:      strings.Join(row, "|"),
		}
	}
	return f.build(cells, row)
}

func (f *TaifexPosition) build(cells []string, row parser.Row) (*model.Position, error) {
	p := &model.Position{
		LongVolume:    parser.CleanNumber(cells[0]),
		LongNotional:  parser.CleanNumber(cells[1]),
		ShortVolume:   parser.CleanNumber(cells[2]),
		ShortNotional: parser.CleanNumber(cells[3]),
		Valid:         true,
	}
	if p.LongVolume < 0 || p.LongNotional < 0 || p.ShortVolume < 0 || p.ShortNotional < 0 {
		return nil, &model.InvariantViolationError{
			Endpoint: f.Name(),
			Detail:   "negative volume or notional",
			Values:   []float64{p.LongVolume, p.LongNotional, p.ShortVolume, p.ShortNotional},
			Raw:      strings.Join(row, "|"),
		}
	}
	return p, nil
}
