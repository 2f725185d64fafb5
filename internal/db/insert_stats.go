package db

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// InsertStats keeps track of insert counts
type InsertStats struct {
	sync.Mutex
	UnifiedCount    int
	QuarantineCount int
	BroadcastCount  int
}

// NewInsertStats starts the periodic summary logger
func NewInsertStats(logger *zap.SugaredLogger) *InsertStats {
	stats := &InsertStats{}
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats.Lock()
			logger.Infow("insert summary",
				"unified", stats.UnifiedCount,
				"quarantined", stats.QuarantineCount,
				"broadcast", stats.BroadcastCount)
			stats.Unlock()
		}
	}()
	return stats
}

// IncrementUnified increments the unified record counter
func (s *InsertStats) IncrementUnified() {
	s.Lock()
	s.UnifiedCount++
	s.Unlock()
}

// IncrementQuarantine increments the quarantine counter
func (s *InsertStats) IncrementQuarantine() {
	s.Lock()
	s.QuarantineCount++
	s.Unlock()
}

// IncrementBroadcast increments the broadcast counter
func (s *InsertStats) IncrementBroadcast() {
	s.Lock()
	s.BroadcastCount++
	s.Unlock()
}
