// Package telemetry exposes stream counters over prometheus. The /metrics
// listener is off unless Expose is called with a non-zero port.
package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csvsed_rows_read_total",
		Help: "Rows pulled from the source, header included.",
	})
	RowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csvsed_rows_written_total",
		Help: "Rows pushed to the sink, header included.",
	})
	ExecFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csvsed_exec_failures_total",
		Help: "External command invocations that failed.",
	})
	StreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csvsed_stream_failures_total",
		Help: "Streams aborted by an error.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
