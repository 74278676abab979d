package fetcher

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"TaifexDaily/internal/model"
	"TaifexDaily/internal/parser"
)

// PressureConfig describes the TWSE five-minute index statistics endpoint
// and which snapshot/column carries the cumulative sell-order aggregate.
type PressureConfig struct {
	URL         string
	Cutoff      string  // early-session timestamp prefix, e.g. "09:00"
	ValueColumn int     // index of the cumulative sell-order column
	UnitScale   float64 // divisor scaling raw orders to the stored unit
}

// TwsePressure fetches the early-session sell-pressure snapshot.
type TwsePressure struct {
	cfg    PressureConfig
	client *httpClient
}

// NewTwsePressure creates the pressure fetcher.
func NewTwsePressure(cfg PressureConfig, opts ClientOptions) *TwsePressure {
	if cfg.ValueColumn <= 0 {
		cfg.ValueColumn = 4
	}
	if cfg.UnitScale <= 0 {
		cfg.UnitScale = 10000
	}
	return &TwsePressure{cfg: cfg, client: newHTTPClient(opts)}
}

func (f *TwsePressure) Name() string { return "twse-pressure" }

// pressureReport is the endpoint's JSON shape: a status field and rows of
// [timestamp, ..., cumulative sell orders, ...] as formatted strings.
type pressureReport struct {
	Stat string     `json:"stat"`
	Data [][]string `json:"data"`
}

// FetchPressure returns the scaled sell-order aggregate at the configured
// cutoff, or an error when the snapshot is absent (holiday, or the feed has
// not produced the early rows yet).
func (f *TwsePressure) FetchPressure(date time.Time) (float64, error) {
	query := url.Values{
		"response": {"json"},
		"date":     {date.Format("20060102")},
	}
	body, err := f.client.get(f.cfg.URL, query)
	if err != nil {
		return 0, &model.FetchError{
			Endpoint: f.Name(),
			Attempts: f.client.opts.MaxRetries + 1,
			Err:      err,
		}
	}

	var report pressureReport
	if err := json.Unmarshal(body, &report); err != nil {
		return 0, fmt.Errorf("%s: decode: %w, body: %s", f.Name(), err, snippet(body))
	}
	if report.Stat != "OK" {
		return 0, fmt.Errorf("%s: stat %q", f.Name(), report.Stat)
	}

	for _, row := range report.Data {
		if len(row) <= f.cfg.ValueColumn {
			continue
		}
		if strings.HasPrefix(row[0], f.cfg.Cutoff) {
			return parser.CleanNumber(row[f.cfg.ValueColumn]) / f.cfg.UnitScale, nil
		}
	}
	return 0, fmt.Errorf("%s: no %s snapshot in %d rows", f.Name(), f.cfg.Cutoff, len(report.Data))
}
