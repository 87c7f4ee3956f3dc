package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PinsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pinco_pins_created_total",
		Help: "Pins successfully created.",
	})

	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinco_like_toggles_total",
		Help: "Like toggles by resulting state.",
	}, []string{"state"})

	TagLinksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinco_tag_links_total",
		Help: "Pin-tag link transitions by kind (created, restored, unlinked).",
	}, []string{"kind"})

	BookmarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinco_bookmarks_total",
		Help: "Bookmark transitions by kind (created, restored, deleted).",
	}, []string{"kind"})

	RadiusSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pinco_radius_search_duration_seconds",
		Help:    "Time spent answering nearby-pin searches.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)
