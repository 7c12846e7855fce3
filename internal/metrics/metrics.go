package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DisplayListComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_display_list_computed_total",
			Help: "Total number of display list computations by sort key",
		},
		[]string{"sort_key"},
	)

	DisplayListDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_display_list_duration_seconds",
			Help:    "Duration of filter and sort over the raw inventory",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	DisplayListSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_display_list_size",
			Help:    "Number of vehicles in computed display lists",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	SelectionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_selection_events_total",
			Help: "Like and compare interactions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_active_sessions",
			Help: "Number of live shopper sessions",
		},
	)

	InventorySyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_sync_total",
			Help: "Inventory refresh runs by result",
		},
		[]string{"result"},
	)

	InventorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_vehicles",
			Help: "Number of vehicles in the current inventory snapshot",
		},
	)

	InventoryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_cache_lookups_total",
			Help: "Inventory cache lookups by result",
		},
		[]string{"result"},
	)
)
