package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TaifexDaily/internal/fetcher"
	"TaifexDaily/internal/model"
	"TaifexDaily/internal/recorder"
)

var (
	friday   = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
)

// memStore is an in-memory Store for orchestration tests.
type memStore struct {
	recs []*model.DailyRecord
}

func (m *memStore) HasDate(date time.Time) (bool, error) {
	for _, r := range m.recs {
		if recorder.DateKey(r.Date) == recorder.DateKey(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Append(rec *model.DailyRecord) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) Dates() ([]time.Time, error) {
	var dates []time.Time
	for _, r := range m.recs {
		dates = append(dates, r.Date)
	}
	return dates, nil
}

func (m *memStore) Close() error { return nil }

func newTestPipeline(q *fetcher.MockQuote, pos *fetcher.MockPosition, pr *fetcher.MockPressure, store recorder.Store) *Pipeline {
	return New(q, pos, pr, store,
		&TradingCalendar{Fallback: true, Loc: time.UTC},
		ContractScale{NotionalUnit: 1000, PointValue: 200})
}

func TestRun_WritesRecord(t *testing.T) {
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{}, &fetcher.MockPosition{}, &fetcher.MockPressure{Value: 123.45}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, outcome)
	require.Len(t, store.recs, 1)

	rec := store.recs[0]
	assert.Equal(t, 17700.0, rec.Open)
	assert.Equal(t, int64(17945), rec.UpperPass)
	assert.Equal(t, int64(17725), rec.MidPass)
	assert.Equal(t, int64(17505), rec.LowerPass)
	assert.Equal(t, int64(17693), rec.Divider)
	assert.Equal(t, int64(425), rec.LongCost)
	assert.Equal(t, int64(419), rec.ShortCost)
	assert.Equal(t, 123.45, rec.SellPressure)

	// store invariant: low <= open,close <= high
	assert.LessOrEqual(t, rec.Low, rec.Open)
	assert.LessOrEqual(t, rec.Open, rec.High)
	assert.LessOrEqual(t, rec.Low, rec.Close)
	assert.LessOrEqual(t, rec.Close, rec.High)
}

func TestRun_WeekendSkipsWithoutFetching(t *testing.T) {
	store := &memStore{}
	quote := &fetcher.MockQuote{}
	pipe := newTestPipeline(quote, &fetcher.MockPosition{}, &fetcher.MockPressure{}, store)

	outcome, err := pipe.Run(saturday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkippedHoliday, outcome)
	assert.Zero(t, quote.Calls)
	assert.Empty(t, store.recs)
}

func TestRun_NoSessionDataSkips(t *testing.T) {
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{Err: model.ErrNoSessionData},
		&fetcher.MockPosition{}, &fetcher.MockPressure{}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkippedHoliday, outcome)
	assert.Empty(t, store.recs)
}

func TestRun_QuoteFailureAborts(t *testing.T) {
	store := &memStore{}
	position := &fetcher.MockPosition{}
	pressure := &fetcher.MockPressure{}
	pipe := newTestPipeline(
		&fetcher.MockQuote{Err: &model.FetchError{Endpoint: "taifex-quote", Attempts: 3}},
		position, pressure, store)

	outcome, err := pipe.Run(friday)
	require.Error(t, err)
	assert.Equal(t, OutcomeAborted, outcome)
	assert.Empty(t, store.recs)
	// soft dependencies are never contacted once the hard one fails
	assert.Zero(t, position.Calls)
	assert.Zero(t, pressure.Calls)
}

func TestRun_PositionFailureDegrades(t *testing.T) {
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{},
		&fetcher.MockPosition{Err: &model.FetchError{Endpoint: "taifex-position", Attempts: 3}},
		&fetcher.MockPressure{Value: 10}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, outcome)
	require.Len(t, store.recs, 1)
	assert.Equal(t, int64(0), store.recs[0].LongCost)
	assert.Equal(t, int64(0), store.recs[0].ShortCost)
	assert.Equal(t, 10.0, store.recs[0].SellPressure)
}

func TestRun_PressureFailureDegrades(t *testing.T) {
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{}, &fetcher.MockPosition{},
		&fetcher.MockPressure{Err: &model.FetchError{Endpoint: "twse-pressure", Attempts: 3}}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, outcome)
	require.Len(t, store.recs, 1)
	assert.Equal(t, 0.0, store.recs[0].SellPressure)
	assert.Equal(t, int64(425), store.recs[0].LongCost)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{}, &fetcher.MockPosition{}, &fetcher.MockPressure{}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, outcome)

	outcome, err = pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, outcome)
	assert.Len(t, store.recs, 1)
}

func TestRun_InvalidPositionZerosAreNotCosts(t *testing.T) {
	// A Position with Valid=false must not produce costs even if its
	// numeric fields happen to be non-zero.
	store := &memStore{}
	pipe := newTestPipeline(&fetcher.MockQuote{},
		&fetcher.MockPosition{Position: &model.Position{LongVolume: 1000, LongNotional: 85000}},
		&fetcher.MockPressure{}, store)

	outcome, err := pipe.Run(friday)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, outcome)
	assert.Equal(t, int64(0), store.recs[0].LongCost)
}
