package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRegisteredAndWritable(t *testing.T) {
	before := testutil.ToFloat64(JobsSubmitted)
	JobsSubmitted.Inc()
	if got := testutil.ToFloat64(JobsSubmitted); got != before+1 {
		t.Errorf("JobsSubmitted = %v after Inc, want %v", got, before+1)
	}

	beforeRejected := testutil.ToFloat64(JobsRejected.WithLabelValues("queue_full"))
	JobsRejected.WithLabelValues("queue_full").Inc()
	if got := testutil.ToFloat64(JobsRejected.WithLabelValues("queue_full")); got != beforeRejected+1 {
		t.Errorf("JobsRejected{queue_full} = %v after Inc, want %v", got, beforeRejected+1)
	}

	QueueDepth.Set(7)
	if got := testutil.ToFloat64(QueueDepth); got != 7 {
		t.Errorf("QueueDepth = %v after Set(7)", got)
	}
	QueueDepth.Set(0)
}
