package metric

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

var (
	msSign      = stats.Int64("tx_sign", "signed transactions", stats.UnitDimensionless)
	msBroadcast = stats.Int64("tx_broadcast", "broadcast transactions", stats.UnitDimensionless)
	mkContract  = newKey("contract")
	mkCode      = newKey("code")
)

func transactionViews() []*view.View {
	return []*view.View{
		newView(msSign, view.Count(), mkContract),
		newView(msBroadcast, view.Count(), mkContract, mkCode),
	}
}

func RecordSign(network, contract string) {
	record(network, msSign.M(1), upsert(mkContract, contract))
}

// RecordBroadcast counts a broadcast by contract type and the return code
// of the ledger.
func RecordBroadcast(network, contract, code string) {
	record(network, msBroadcast.M(1),
		upsert(mkContract, contract), upsert(mkCode, code))
}
