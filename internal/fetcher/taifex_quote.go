package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"TaifexDaily/internal/model"
	"TaifexDaily/internal/parser"
)

// QuoteConfig describes the TAIFEX daily market report endpoint and the
// labels used to locate the instrument's regular-session row.
type QuoteConfig struct {
	URL          string
	CommodityID  string // e.g. "TX"
	MarketCode   string // "0" = regular trading session scope
	Instrument   string // row label, e.g. "臺股期貨"
	ExcludeLabel string // after-hours session marker, e.g. "盤後"
}

// TaifexQuote fetches daily OHLC from the TAIFEX futures market report.
type TaifexQuote struct {
	cfg    QuoteConfig
	client *httpClient
}

// NewTaifexQuote creates the quote fetcher.
func NewTaifexQuote(cfg QuoteConfig, opts ClientOptions) *TaifexQuote {
	return &TaifexQuote{cfg: cfg, client: newHTTPClient(opts)}
}

func (f *TaifexQuote) Name() string { return "taifex-quote" }

// FetchQuote fetches and extracts the day's OHLC. A placeholder open price
// means the market did not trade that date and yields ErrNoSessionData.
func (f *TaifexQuote) FetchQuote(date time.Time) (*model.Quote, error) {
	form := url.Values{
		"queryType":    {"2"},
		"marketCode":   {f.cfg.MarketCode},
		"commodity_id": {f.cfg.CommodityID},
		"queryDate":    {date.Format("2006/01/02")},
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
		// A table-less 200 response usually means the site served an
		// error page; treat it as a date with no published data.
		return nil, fmt.Errorf("%w: %v", model.ErrNoSessionData, err)
	}

	// The report lists every contract and session type in its first table.
	row, ok := tables[0].FindRow([]string{f.cfg.Instrument}, []string{f.cfg.ExcludeLabel})
	if !ok {
		return nil, fmt.Errorf("%w: no %s row in report", model.ErrNoSessionData, f.cfg.Instrument)
	}

	// Cells after the contract label: delivery month, open, high, low, close.
	cells, ok := row.CellsAfter(f.cfg.Instrument, 5)
	if !ok {
		return nil, &model.InvariantViolationError{
			Endpoint: f.Name(),
			Detail:   "instrument row too short",
			Raw:      strings.Join(row, "|"),
		}
	}
	openRaw, highRaw, lowRaw, closeRaw := cells[1], cells[2], cells[3], cells[4]

	if parser.IsPlaceholder(openRaw) {
		return nil, model.ErrNoSessionData
	}

	q := &model.Quote{
		Open:  parser.CleanNumber(openRaw),
		High:  parser.CleanNumber(highRaw),
		Low:   parser.CleanNumber(lowRaw),
		Close: parser.CleanNumber(closeRaw),
	}
	if err := q.Validate(); err != nil {
		var iv *model.InvariantViolationError
		if errors.As(err, &iv) {
			iv.Endpoint = f.Name()
			iv.Raw = strings.Join(row, "|")
		}
		return nil, err
	}
	return q, nil
}
