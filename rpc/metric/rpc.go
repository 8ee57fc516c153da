package metric

import (
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	msRequest = stats.Int64("rpc_request", "ledger rpc requests", stats.UnitMilliseconds)
	mkMethod  = newKey("method")
	mkResult  = newKey("result")
)

func rpcViews() []*view.View {
	return []*view.View{
		newView(msRequest, view.Count(), mkMethod, mkResult),
		newView(msRequest, view.Distribution(5, 10, 50, 100, 500, 1000, 5000), mkMethod, mkResult),
	}
}

// RecordRequest records one ledger call and its latency.
func RecordRequest(network, method string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	record(network, msRequest.M(d.Milliseconds()),
		upsert(mkMethod, method), upsert(mkResult, result))
}
