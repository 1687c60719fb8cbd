package metrics

import (
	"sort"
	"sync"
	"time"
)

// Aggregator keeps metrics in hourly buckets.
type Aggregator struct {
	mu  sync.Mutex
	now func() time.Time

	// key = "hourBucket|outcome"
	attempts map[string]*attemptBucket
	// key = "hourBucket|judge"
	judges map[string]*judgeBucket
}

type attemptBucket struct {
	hourBucket time.Time
	outcome    string
	count      int64
	latencies  []int64 // milliseconds
}

type judgeBucket struct {
	hourBucket   time.Time
	judge        string
	callCount    int64
	successCount int64
	latencySum   int64 // milliseconds
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		now:      time.Now,
		attempts: make(map[string]*attemptBucket),
		judges:   make(map[string]*judgeBucket),
	}
}

func (a *Aggregator) RecordAttempt(outcome string, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hour := truncateToHour(a.now())
	key := bucketKey(hour, outcome)
	b, ok := a.attempts[key]
	if !ok {
		b = &attemptBucket{hourBucket: hour, outcome: outcome}
		a.attempts[key] = b
	}
	b.count++
	b.latencies = append(b.latencies, latency.Milliseconds())
}

func (a *Aggregator) RecordJudgeCall(judge string, latency time.Duration, success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hour := truncateToHour(a.now())
	key := bucketKey(hour, judge)
	b, ok := a.judges[key]
	if !ok {
		b = &judgeBucket{hourBucket: hour, judge: judge}
		a.judges[key] = b
	}
	b.callCount++
	if success {
		b.successCount++
	}
	b.latencySum += latency.Milliseconds()
}

// Stats aggregates the buckets that fall inside tr.
func (a *Aggregator) Stats(tr TimeRange) *TrainingMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := &TrainingMetrics{
		OutcomeCounts: make(map[string]int64),
		JudgeStats:    make(map[string]*JudgeStat),
	}

	var latencies []int64
	for _, b := range a.attempts {
		if !tr.contains(b.hourBucket) {
			continue
		}
		stats.AttemptCount += b.count
		stats.OutcomeCounts[b.outcome] += b.count
		latencies = append(latencies, b.latencies...)
	}
	stats.LatencyP50 = time.Duration(percentile(latencies, 50)) * time.Millisecond
	stats.LatencyP95 = time.Duration(percentile(latencies, 95)) * time.Millisecond

	type judgeAgg struct {
		calls, success, latencySum int64
	}
	aggs := make(map[string]*judgeAgg)
	var success int64
	for _, b := range a.judges {
		if !tr.contains(b.hourBucket) {
			continue
		}
		agg, ok := aggs[b.judge]
		if !ok {
			agg = &judgeAgg{}
			aggs[b.judge] = agg
		}
		agg.calls += b.callCount
		agg.success += b.successCount
		agg.latencySum += b.latencySum
		stats.JudgeCalls += b.callCount
		success += b.successCount
	}
	for judge, agg := range aggs {
		stats.JudgeStats[judge] = &JudgeStat{
			Count:       agg.calls,
			SuccessRate: float32(agg.success) / float32(agg.calls),
			AvgLatency:  time.Duration(agg.latencySum/agg.calls) * time.Millisecond,
		}
	}
	if stats.JudgeCalls > 0 {
		stats.JudgeSuccessRate = float32(success) / float32(stats.JudgeCalls)
	}
	return stats
}

// Prune drops buckets older than before and returns how many were removed.
func (a *Aggregator) Prune(before time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	for key, b := range a.attempts {
		if b.hourBucket.Before(before) {
			delete(a.attempts, key)
			removed++
		}
	}
	for key, b := range a.judges {
		if b.hourBucket.Before(before) {
			delete(a.judges, key)
			removed++
		}
	}
	return removed
}

func (tr TimeRange) contains(hour time.Time) bool {
	if !tr.Start.IsZero() && hour.Before(truncateToHour(tr.Start)) {
		return false
	}
	if !tr.End.IsZero() && hour.After(tr.End) {
		return false
	}
	return true
}

func truncateToHour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

func bucketKey(hour time.Time, name string) string {
	return hour.Format(time.RFC3339) + "|" + name
}

func percentile(latencies []int64, p int) int64 {
	if len(latencies) == 0 {
		return 0
	}
	sorted := append([]int64(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[(len(sorted)-1)*p/100]
}
