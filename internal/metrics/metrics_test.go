package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/restaurants", "200"))

	RecordAPIRequest("GET", "/api/v1/restaurants", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/restaurants", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "reviews"))

	RecordDBQuery("insert", "reviews", time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "reviews")))

	RecordDBQuery("insert", "reviews", time.Millisecond, errors.New("connection refused"))
	assert.Equal(t, before+1, testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "reviews")))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))

	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordAuthAndRateLimited(t *testing.T) {
	login := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "invalid"))
	limited := testutil.ToFloat64(RateLimitedTotal.WithLabelValues("burst"))

	RecordAuth("login", "invalid")
	RecordRateLimited("burst")

	assert.Equal(t, login+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", "invalid")))
	assert.Equal(t, limited+1, testutil.ToFloat64(RateLimitedTotal.WithLabelValues("burst")))
}
