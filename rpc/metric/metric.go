// Package metric records wallet activity with opencensus. Every
// measurement is tagged with the host and the network it was made on.
package metric

import (
	"context"
	"os"
	"sync"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/tronwallet/walletgo/common/log"
)

const Namespace = "walletgo"

var (
	keyHostname = newKey("hostname")
	keyNetwork  = newKey("network")
	commonKeys  = []tag.Key{keyHostname, keyNetwork}

	hostTag = tag.Insert(keyHostname, hostname())

	// upserts caches one mutator per key and value.
	upserts sync.Map

	registerOnce sync.Once
)

func newKey(name string) tag.Key {
	key, err := tag.NewKey(name)
	if err != nil {
		log.Fatalf("invalid metric key %s: %+v", name, err)
	}
	return key
}

type upsertKey struct {
	key   string
	value string
}

func upsert(k tag.Key, v string) tag.Mutator {
	uk := upsertKey{k.Name(), v}
	if m, ok := upserts.Load(uk); ok {
		return m.(tag.Mutator)
	}
	m, _ := upserts.LoadOrStore(uk, tag.Upsert(k, v))
	return m.(tag.Mutator)
}

var aggSuffix = map[view.AggType]string{
	view.AggTypeCount:        "_cnt",
	view.AggTypeSum:          "_sum",
	view.AggTypeDistribution: "_dist",
}

// newView names the view after its measure and aggregation, like
// "tx_sign_cnt".
func newView(m stats.Measure, agg *view.Aggregation, keys ...tag.Key) *view.View {
	return &view.View{
		Name:        m.Name() + aggSuffix[agg.Type],
		Description: m.Description() + " aggregated by " + agg.Type.String(),
		Measure:     m,
		Aggregation: agg,
		TagKeys:     append(append([]tag.Key{}, commonKeys...), keys...),
	}
}

func register(views ...*view.View) {
	if err := view.Register(views...); err != nil {
		log.Fatalf("fail to register views: %+v", err)
	}
}

func record(network string, m stats.Measurement, mutators ...tag.Mutator) {
	if network == "" {
		network = "unknown"
	}
	ms := append([]tag.Mutator{hostTag, upsert(keyNetwork, network)}, mutators...)
	if err := stats.RecordWithTags(context.Background(), ms, m); err != nil {
		log.Warnf("fail to record %s: %v", m.Measure().Name(), err)
	}
}

func hostname() string {
	if name := os.Getenv("WALLET_NODE_NAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}

// Register registers all wallet views. It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		register(rpcViews()...)
		register(transactionViews()...)
	})
}

// PrometheusExporter registers the views and returns an exporter which
// serves them over HTTP.
func PrometheusExporter() (*prometheus.Exporter, error) {
	Register()
	return prometheus.NewExporter(prometheus.Options{
		Namespace: Namespace,
	})
}
