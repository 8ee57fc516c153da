package metric

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"
)

func TestRecordRequest(t *testing.T) {
	Register()
	Register()

	RecordRequest("testnet", "wallet_getAccount", 3*time.Millisecond, nil)
	RecordRequest("testnet", "wallet_getAccount", 7*time.Millisecond, errors.New("refused"))

	rows, err := view.RetrieveData(msRequest.Name() + "_cnt")
	require.NoError(t, err)
	results := map[string]int64{}
	for _, r := range rows {
		for _, tg := range r.Tags {
			if tg.Key == mkResult {
				results[tg.Value] += r.Data.(*view.CountData).Value
			}
		}
	}
	assert.GreaterOrEqual(t, results[ResultSuccess], int64(1))
	assert.GreaterOrEqual(t, results[ResultFailure], int64(1))
}

func TestPrometheusExporter(t *testing.T) {
	pe, err := PrometheusExporter()
	require.NoError(t, err)

	RecordSign("mainnet", "TransferContract")
	RecordBroadcast("mainnet", "TransferContract", "SUCCESS")

	srv := httptest.NewServer(pe)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), Namespace+"_tx_sign_cnt")
	assert.Contains(t, string(body), `contract="TransferContract"`)
}
