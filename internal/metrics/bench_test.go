package metrics

import "testing"

// BenchmarkCollector_Probe measures the overhead of recording one
// probe start/finish pair.
func BenchmarkCollector_Probe(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ProbeStarted()
		c.ProbeFinished(false, false)
	}
}

// BenchmarkCollector_ProbeParallel measures contention on the peak
// in-flight gauge.
func BenchmarkCollector_ProbeParallel(b *testing.B) {
	c := New()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.ProbeStarted()
			c.ProbeFinished(true, false)
		}
	})
}

// BenchmarkCollector_Snapshot measures the cost of taking a snapshot.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := New()
	c.ProbeStarted()
	c.WaveCompleted()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}
