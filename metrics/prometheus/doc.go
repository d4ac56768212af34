// Package prometheus exports lexgo operational metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := lexprom.NewCollector(reg)
//	if err != nil {
//	    return err
//	}
//	db, err := lexgo.Open(ctx, store, lexgo.WithMetricsCollector(collector))
package prometheus
