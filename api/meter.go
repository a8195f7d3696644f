package api

import (
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/sinuosity/common"
	"github.com/rotblauer/sinuosity/conceptual"
	"log/slog"
	"sync"
	"time"
)

// progressMeter periodically logs channel and point throughput.
type progressMeter struct {
	logger   *slog.Logger
	interval time.Duration
	started  time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once

	mu   sync.Mutex
	last conceptual.ChannelID

	reg         metrics.Registry
	channels    metrics.Counter
	points      metrics.Counter
	pointsMeter metrics.Meter
}

func newProgressMeter(logger *slog.Logger, interval time.Duration) *progressMeter {
	reg := metrics.NewRegistry()
	pm := &progressMeter{
		logger:      logger,
		interval:    interval,
		started:     time.Now(),
		done:        make(chan struct{}),
		reg:         reg,
		channels:    metrics.NewCounter(),
		points:      metrics.NewCounter(),
		pointsMeter: metrics.NewMeter(),
	}
	if err := reg.Register("channels.count", pm.channels); err != nil {
		panic(err)
	}
	if err := reg.Register("points.count", pm.points); err != nil {
		panic(err)
	}
	if err := reg.Register("points.meter", pm.pointsMeter); err != nil {
		panic(err)
	}
	pm.ticker = time.NewTicker(interval)
	go pm.run()
	return pm
}

func (pm *progressMeter) mark(id conceptual.ChannelID, points int) {
	pm.mu.Lock()
	pm.last = id
	pm.mu.Unlock()
	pm.channels.Inc(1)
	pm.points.Inc(int64(points))
	pm.pointsMeter.Mark(int64(points))
}

func (pm *progressMeter) run() {
	for {
		select {
		case <-pm.done:
			return
		case <-pm.ticker.C:
			pm.log()
		}
	}
}

func (pm *progressMeter) log() {
	pm.mu.Lock()
	last := pm.last
	pm.mu.Unlock()
	snap := pm.pointsMeter.Snapshot()
	pm.logger.Info("Processing channels",
		"channels", humanize.Comma(pm.channels.Snapshot().Count()),
		"points", humanize.Comma(pm.points.Snapshot().Count()),
		"last", last,
		"pps", common.DecimalToFixed(snap.Rate1(), 0),
		"running", time.Since(pm.started).Round(time.Second))
}

func (pm *progressMeter) stop() {
	if pm == nil {
		return
	}
	pm.once.Do(func() {
		pm.ticker.Stop()
		close(pm.done)
		pm.pointsMeter.Stop()
	})
}
