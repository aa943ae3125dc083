package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		ObserveHTTP("GET", "/items/{itemId}", 200, 15*time.Millisecond)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/{itemId}", "200")))
}

func TestBookingTransitions(t *testing.T) {
	before := testutil.ToFloat64(bookingTransitions.WithLabelValues("APPROVED"))

	IncBookingTransition("APPROVED")
	IncBookingTransition("APPROVED")

	assert.Equal(t, before+2, testutil.ToFloat64(bookingTransitions.WithLabelValues("APPROVED")))
}

func TestComments(t *testing.T) {
	before := testutil.ToFloat64(comments)
	IncComment()
	assert.Equal(t, before+1, testutil.ToFloat64(comments))
}
