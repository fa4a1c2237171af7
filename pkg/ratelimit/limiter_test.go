package ratelimit

import (
	"testing"
	"time"
)

func TestIntervalFirstWaitImmediate(t *testing.T) {
	l := NewInterval(time.Second)

	start := time.Now()
	l.Wait()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected first Wait to return immediately, took %v", elapsed)
	}
}

func TestIntervalPacing(t *testing.T) {
	interval := 50 * time.Millisecond
	l := NewInterval(interval)

	n := 5
	start := time.Now()
	for i := 0; i < n; i++ {
		l.Wait()
	}
	elapsed := time.Since(start)

	// N permits need at least (N-1) full intervals
	min := time.Duration(n-1) * interval
	if elapsed < min {
		t.Errorf("Expected at least %v elapsed for %d permits, got %v", min, n, elapsed)
	}
}

func TestIntervalProcessingCountsTowardBudget(t *testing.T) {
	interval := 60 * time.Millisecond
	l := NewInterval(interval)

	l.Wait()
	// Simulate processing longer than the interval; the next Wait
	// should not sleep on top of it.
	time.Sleep(interval + 20*time.Millisecond)

	start := time.Now()
	l.Wait()
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("Expected no extra sleep when processing exceeded the interval, slept %v", elapsed)
	}
}

func TestIntervalAllow(t *testing.T) {
	l := NewInterval(time.Second)

	if !l.Allow() {
		t.Error("Expected first Allow to pass")
	}
	if l.Allow() {
		t.Error("Expected second Allow within the interval to be denied")
	}

	l.Reset()
	if !l.Allow() {
		t.Error("Expected Allow to pass after Reset")
	}
}

func TestIntervalZeroNeverBlocks(t *testing.T) {
	l := NewInterval(0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected zero interval to never block, took %v", elapsed)
	}
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, time.Second)

	// Test initial capacity
	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	// Test exhaustion
	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	// Test refill after waiting
	time.Sleep(time.Second + 100*time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected tokens to be refilled after waiting")
	}

	// Test reset
	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}
