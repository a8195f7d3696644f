package params

import (
	"compress/gzip"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/mitchellh/go-homedir"
	"path/filepath"
	"runtime"
)

func init() {
	metrics.Enabled = true
}

const (
	ChannelsDir = "channels"

	RowsGZFileName     = "rows.ndjson.gz"
	ChannelFileName    = "channel.geojson"
	ReferenceFileName  = "reference.geojson"
	ConfigFileBaseName = ".sinuosity"
	EnvPrefix          = "SINUOSITY"
)

var DatadirRoot = func() string {
	home, err := homedir.Dir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".sinuosity")
}()

// DefaultWorkersN is the number of channel traces processed in parallel.
var DefaultWorkersN = runtime.NumCPU()

// DefaultDedupeCacheSize bounds the number of trace hashes remembered by input dedupe.
var DefaultDedupeCacheSize = 10_000

var DefaultGZipCompressionLevel = gzip.BestCompression
