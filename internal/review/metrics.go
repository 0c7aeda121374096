package review

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_reviews_written_total",
			Help: "Reviews created, updated and deleted",
		},
		[]string{"op"},
	)

	duplicateReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_review_duplicates_total",
			Help: "Rejected duplicate reviews by the layer that caught them",
		},
		[]string{"guard"},
	)
)
