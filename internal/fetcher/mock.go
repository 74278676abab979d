package fetcher

import (
	"time"

	"TaifexDaily/internal/model"
)

// MockQuote returns controllable fixed data for development and testing.
type MockQuote struct {
	Quote *model.Quote
	Err   error
	Calls int
}

func (m *MockQuote) Name() string { return "mock-quote" }

func (m *MockQuote) FetchQuote(_ time.Time) (*model.Quote, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote != nil {
		return m.Quote, nil
	}
	return &model.Quote{Open: 17700, High: 17850, Low: 17600, Close: 17780}, nil
}

// MockPosition returns controllable fixed position data.
type MockPosition struct {
	Position *model.Position
	Err      error
	Calls    int
}

func (m *MockPosition) Name() string { return "mock-position" }

func (m *MockPosition) FetchPosition(_ time.Time) (*model.Position, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Position != nil {
		return m.Position, nil
	}
	return &model.Position{
		LongVolume:    1000,
		LongNotional:  85000,
		ShortVolume:   800,
		ShortNotional: 67000,
		Valid:         true,
	}, nil
}

// MockPressure returns a controllable fixed pressure value.
type MockPressure struct {
	Value float64
	Err   error
	Calls int
}

func (m *MockPressure) Name() string { return "mock-pressure" }

func (m *MockPressure) FetchPressure(_ time.Time) (float64, error) {
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Value, nil
}
