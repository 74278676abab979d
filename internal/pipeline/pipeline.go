package pipeline

import (
	"errors"
	"fmt"
	"log"
	"time"

	"TaifexDaily/internal/calculator"
	"TaifexDaily/internal/fetcher"
	"TaifexDaily/internal/model"
	"TaifexDaily/internal/recorder"
)

// Outcome is the terminal state of one pipeline run. Every run reaches
// exactly one of these; none of them is a process failure.
type Outcome int

const (
	// OutcomeWritten: a new record was appended for the date.
	OutcomeWritten Outcome = iota
	// OutcomeAlreadyExists: a record for the date was already stored.
	OutcomeAlreadyExists
	// OutcomeSkippedHoliday: non-trading day, nothing to ingest.
	OutcomeSkippedHoliday
	// OutcomeAborted: the hard dependency or the store failed; no partial
	// record was written.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeSkippedHoliday:
		return "skipped-holiday"
	case OutcomeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ContractScale holds the instrument's notional and point-value constants
// used by the cost-basis derivation. They are configuration, not derived.
type ContractScale struct {
	NotionalUnit float64 // rescales notional reported in thousands
	PointValue   float64 // currency per index point per contract
}

// Pipeline runs one day's ingestion: fetch, derive, assemble, append.
// Fetches run strictly in sequence to bound request concurrency against
// the rate-limited public endpoints.
type Pipeline struct {
	Quote    fetcher.QuoteFetcher
	Position fetcher.PositionFetcher
	Pressure fetcher.PressureFetcher
	Store    recorder.Store
	Calendar *TradingCalendar
	Scale    ContractScale
}

// New creates a Pipeline.
func New(q fetcher.QuoteFetcher, pos fetcher.PositionFetcher, pr fetcher.PressureFetcher,
	store recorder.Store, cal *TradingCalendar, scale ContractScale) *Pipeline {
	return &Pipeline{
		Quote:    q,
		Position: pos,
		Pressure: pr,
		Store:    store,
		Calendar: cal,
		Scale:    scale,
	}
}

// Run executes one ingestion pass for the target date. The quote fetch is
// the hard dependency: any failure there aborts with no write. Position and
// pressure degrade to their unavailable sentinels. The returned error is
// non-nil only for OutcomeAborted.
func (p *Pipeline) Run(date time.Time) (Outcome, error) {
	day := recorder.DateKey(date)
	log.Printf("[INFO] pipeline run for %s", day)

	if p.Calendar != nil && !p.Calendar.IsTradingDay(date) {
		log.Printf("[INFO] %s is not a trading day, skipping", day)
		return OutcomeSkippedHoliday, nil
	}

	quote, err := p.Quote.FetchQuote(date)
	if err != nil {
		if errors.Is(err, model.ErrNoSessionData) {
			log.Printf("[INFO] %s: no session data (%s), skipping: %v", day, p.Quote.Name(), err)
			return OutcomeSkippedHoliday, nil
		}
		log.Printf("[ERROR] %s: quote fetch failed, aborting run: %v", day, err)
		return OutcomeAborted, err
	}
	log.Printf("[INFO] %s quote: open=%.0f high=%.0f low=%.0f close=%.0f",
		day, quote.Open, quote.High, quote.Low, quote.Close)

	position := p.fetchPositionSoft(date, day)
	pressure := p.fetchPressureSoft(date, day)

	rec, err := p.assemble(date, quote, position, pressure)
	if err != nil {
		log.Printf("[ERROR] %s: derive indicators: %v", day, err)
		return OutcomeAborted, err
	}

	exists, err := p.Store.HasDate(date)
	if err != nil {
		log.Printf("[ERROR] %s: store existence check: %v", day, err)
		return OutcomeAborted, err
	}
	if exists {
		log.Printf("[INFO] %s already stored, skipping write", day)
		return OutcomeAlreadyExists, nil
	}
	if err := p.Store.Append(rec); err != nil {
		log.Printf("[ERROR] %s: append record: %v", day, err)
		return OutcomeAborted, err
	}

	log.Printf("[INFO] %s written: passes=%d/%d/%d divider=%d costs=%d/%d pressure=%.2f",
		day, rec.UpperPass, rec.MidPass, rec.LowerPass, rec.Divider,
		rec.LongCost, rec.ShortCost, rec.SellPressure)
	return OutcomeWritten, nil
}

// fetchPositionSoft degrades any position failure to "unavailable".
func (p *Pipeline) fetchPositionSoft(date time.Time, day string) *model.Position {
	pos, err := p.Position.FetchPosition(date)
	if err != nil {
		log.Printf("[WARN] %s: position fetch failed, costs unavailable: %v", day, err)
		return &model.Position{}
	}
	return pos
}

// fetchPressureSoft degrades any pressure failure to 0.
func (p *Pipeline) fetchPressureSoft(date time.Time, day string) float64 {
	v, err := p.Pressure.FetchPressure(date)
	if err != nil {
		log.Printf("[WARN] %s: pressure fetch failed, recording 0: %v", day, err)
		return 0
	}
	return v
}

func (p *Pipeline) assemble(date time.Time, quote *model.Quote, position *model.Position, pressure float64) (*model.DailyRecord, error) {
	bands, err := calculator.PassBands(quote.High, quote.Low)
	if err != nil {
		return nil, err
	}

	var longCost, shortCost int64
	if position.Valid {
		longCost = calculator.CostBasis(position.LongVolume, position.LongNotional,
			p.Scale.NotionalUnit, p.Scale.PointValue)
		shortCost = calculator.CostBasis(position.ShortVolume, position.ShortNotional,
			p.Scale.NotionalUnit, p.Scale.PointValue)
	}

	return &model.DailyRecord{
		Date:         date,
		Open:         quote.Open,
		High:         quote.High,
		Low:          quote.Low,
		Close:        quote.Close,
		UpperPass:    bands.Upper,
		MidPass:      bands.Mid,
		LowerPass:    bands.Lower,
		Divider:      calculator.Divider(quote.Open, quote.Low, quote.Close),
		LongCost:     longCost,
		ShortCost:    shortCost,
		SellPressure: pressure,
	}, nil
}
