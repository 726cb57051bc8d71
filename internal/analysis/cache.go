package analysis

import (
	"log"
	"sync"

	"huddleboard/internal/models"

	"github.com/jinzhu/gorm"
)

// Cache holds generated follow-up reports keyed by bucket name, plus the
// most recent huddle result. Writes go through to the database when one is
// attached so a restart can warm the cache from disk.
type Cache struct {
	mu      sync.RWMutex
	reports map[string]*models.FollowUpReport
	huddle  *models.HuddleResult
	db      *gorm.DB
}

// NewCache creates a cache. db may be nil for memory-only operation.
func NewCache(db *gorm.DB) *Cache {
	return &Cache{
		reports: make(map[string]*models.FollowUpReport),
		db:      db,
	}
}

// GetReport returns the cached report for a bucket, if any.
func (c *Cache) GetReport(bucket string) (*models.FollowUpReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	report, ok := c.reports[bucket]
	return report, ok
}

// PutReport stores a report and writes it through to the database.
func (c *Cache) PutReport(report *models.FollowUpReport) {
	c.mu.Lock()
	c.reports[report.Bucket] = report
	c.mu.Unlock()

	if c.db == nil {
		return
	}
	var record models.FollowUpRecord
	if err := record.SetReport(report); err != nil {
		log.Printf("Failed to serialize follow-up report for %s: %v", report.Bucket, err)
		return
	}
	if err := c.db.Create(&record).Error; err != nil {
		log.Printf("Failed to persist follow-up report for %s: %v", report.Bucket, err)
	}
}

// SetHuddle stores the latest huddle result and persists it.
func (c *Cache) SetHuddle(result *models.HuddleResult) {
	c.mu.Lock()
	c.huddle = result
	c.mu.Unlock()

	if c.db == nil {
		return
	}
	var record models.HuddleRecord
	if err := record.SetResult(result); err != nil {
		log.Printf("Failed to serialize huddle result: %v", err)
		return
	}
	if err := c.db.Create(&record).Error; err != nil {
		log.Printf("Failed to persist huddle result: %v", err)
	}
}

// LatestHuddle returns the most recent huddle result, if any.
func (c *Cache) LatestHuddle() (*models.HuddleResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.huddle == nil {
		return nil, false
	}
	return c.huddle, true
}

// Warm loads the newest persisted report per bucket and the newest huddle
// result from the database. Safe to call with no database attached.
func (c *Cache) Warm(buckets []string) {
	if c.db == nil {
		return
	}

	for _, bucket := range buckets {
		var record models.FollowUpRecord
		err := c.db.Where("bucket = ?", bucket).Order("created_at desc").First(&record).Error
		if err != nil {
			if !gorm.IsRecordNotFoundError(err) {
				log.Printf("Failed to load follow-up report for %s: %v", bucket, err)
			}
			continue
		}
		report, err := record.Report()
		if err != nil {
			log.Printf("Failed to decode persisted report for %s: %v", bucket, err)
			continue
		}
		c.mu.Lock()
		c.reports[bucket] = report
		c.mu.Unlock()
	}

	var record models.HuddleRecord
	err := c.db.Order("created_at desc").First(&record).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			log.Printf("Failed to load huddle result: %v", err)
		}
		return
	}
	result, err := record.Result()
	if err != nil {
		log.Printf("Failed to decode persisted huddle result: %v", err)
		return
	}
	c.mu.Lock()
	c.huddle = result
	c.mu.Unlock()
}
