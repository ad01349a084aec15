package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BookingCounters(t *testing.T) {
	m := NewWithRegistry("training-booking", prometheus.NewRegistry())

	m.IncBookingCreated()
	m.IncBookingCreated()
	m.IncBookingCancelled()
	m.IncBookingRejected("too_short")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("training-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCancelled.WithLabelValues("training-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingRejections.WithLabelValues("training-booking", "too_short")))
}

func TestMetrics_HTTPAndDB(t *testing.T) {
	m := NewWithRegistry("svc", prometheus.NewRegistry())

	m.ObserveHTTPRequest("POST", "/api/v1/bookings", 200, 15*time.Millisecond)
	m.ObserveDBQuery("select", time.Millisecond, nil)
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("boom"))
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("svc", "POST", "/api/v1/bookings", "200")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DBOpenConnections.WithLabelValues("svc")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingCreated()
		m.IncBookingRejected("gap")
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
		m.SetDBPoolStats(sql.DBStats{})
	})
}
