package fetcher

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TaifexDaily/internal/model"
)

func newPositionFetcher(url string) *TaifexPosition {
	return NewTaifexPosition(PositionConfig{
		URL:          url,
		QueryType:    "1",
		Instrument:   "臺股期貨",
		Counterparty: "外資",
	}, testClientOptions())
}

// The report nests a summary table before the per-contract one, and the
// per-contract table carries a leading serial column. Both rows for other
// counterparties and the anchor-based extraction are exercised here.
const positionReportHTML = `<html><body>
<table><tr><td>日期</td><td>2026/08/28</td></tr></table>
<table>
<tr><th>序號</th><th>商品名稱</th><th>身份別</th><th>多方口數</th><th>多方契約金額</th><th>空方口數</th><th>空方契約金額</th></tr>
<tr><td>1</td><td>臺股期貨</td><td>自營商</td><td>5,200</td><td>440,000</td><td>4,100</td><td>350,000</td></tr>
<tr><td>2</td><td>臺股期貨</td><td>投信</td><td>900</td><td>76,000</td><td>1,200</td><td>101,000</td></tr>
<tr><td>3</td><td>臺股期貨</td><td>外資</td><td>1,000</td><td>85,000</td><td>800</td><td>67,000</td></tr>
</table>
</body></html>`

func TestTaifexPosition_FetchPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2026/08/28", r.PostForm.Get("queryDate"))
		fmt.Fprint(w, positionReportHTML)
	}))
	defer srv.Close()

	p, err := newPositionFetcher(srv.URL).FetchPosition(testDate)
	require.NoError(t, err)
	assert.Equal(t, &model.Position{
		LongVolume:    1000,
		LongNotional:  85000,
		ShortVolume:   800,
		ShortNotional: 67000,
		Valid:         true,
	}, p)
}

func TestTaifexPosition_FallbackOffset(t *testing.T) {
	// Counterparty rendered outside the scanned cells; only the instrument
	// row is findable and data sits at the fixed offset.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><table>
<tr><td>3</td><td>臺股期貨</td><td></td><td>1,000</td><td>85,000</td><td>800</td><td>67,000</td></tr>
</table></body></html>`)
	}))
	defer srv.Close()

	p, err := newPositionFetcher(srv.URL).FetchPosition(testDate)
	require.NoError(t, err)
	assert.True(t, p.Valid)
	assert.Equal(t, 1000.0, p.LongVolume)
	assert.Equal(t, 67000.0, p.ShortNotional)
}

func TestTaifexPosition_NoMatchingRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><table><tr><td>小型臺指</td><td>外資</td><td>10</td><td>20</td><td>30</td><td>40</td></tr></table></body></html>`)
	}))
	defer srv.Close()

	_, err := newPositionFetcher(srv.URL).FetchPosition(testDate)
	assert.Error(t, err)
}

func TestTaifexPosition_ShortRowIsInvariantViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><table>
<tr><td>臺股期貨</td><td>外資</td><td>1,000</td></tr>
</table></body></html>`)
	}))
	defer srv.Close()

	_, err := newPositionFetcher(srv.URL).FetchPosition(testDate)
	var iv *model.InvariantViolationError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "taifex-position", iv.Endpoint)
}

func TestTaifexPosition_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newPositionFetcher(srv.URL).FetchPosition(testDate)
	var fe *model.FetchError
	assert.ErrorAs(t, err, &fe)
}
