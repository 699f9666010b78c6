package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGame(t *testing.T) {
	okBefore := testutil.ToFloat64(GamesProcessedTotal.WithLabelValues("success"))
	playsBefore := testutil.ToFloat64(ClutchPlaysTotal)

	RecordGame("success", 7)
	RecordGame("success", 0)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(GamesProcessedTotal.WithLabelValues("success")))
	assert.Equal(t, playsBefore+7, testutil.ToFloat64(ClutchPlaysTotal))
}

func TestRecordRun(t *testing.T) {
	RecordRun("success", 12.5, 321)
	assert.Equal(t, float64(321), testutil.ToFloat64(PlayersExported))
	assert.Greater(t, testutil.ToFloat64(LastSuccessfulRun), float64(0))

	// Failed runs leave the exported gauge untouched
	RecordRun("failed", 1, 5)
	assert.Equal(t, float64(321), testutil.ToFloat64(PlayersExported))
}

func TestRecordAPICall(t *testing.T) {
	before := testutil.ToFloat64(APICallsTotal.WithLabelValues("playbyplay", "200"))
	RecordAPICall("playbyplay", "200", 0.25)
	assert.Equal(t, before+1, testutil.ToFloat64(APICallsTotal.WithLabelValues("playbyplay", "200")))
}
