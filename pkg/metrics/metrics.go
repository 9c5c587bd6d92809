// Package metrics keeps workdir-local time series for operational gauges and
// counters (process usage, request rates, orders placed).
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

var (
	storage  tstorage.Storage
	mu       sync.Mutex
	counters = map[string]int64{}
)

// InitMetrics opens the metrics partition under the given workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = s
	return nil
}

// SetGauge records an instantaneous value for the named metric.
func SetGauge(name string, value int64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// IncrCounter bumps a monotonic counter and records its running value.
func IncrCounter(name string, delta int64) {
	if storage == nil {
		return
	}
	mu.Lock()
	counters[name] += delta
	v := counters[name]
	mu.Unlock()
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(v)},
		},
	})
}

// Query returns the data points of a metric between start and end (unix
// seconds).
func Query(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	if storage == nil {
		return nil, errors.New("metrics storage not initialized")
	}
	points, err := storage.Select(name, nil, start, end)
	if err != nil {
		if errors.Is(err, tstorage.ErrNoDataPoints) {
			return []*tstorage.DataPoint{}, nil
		}
		return nil, errors.Wrapf(err, "select metric %s", name)
	}
	return points, nil
}

// Close flushes and closes the metrics storage.
func Close() error {
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
