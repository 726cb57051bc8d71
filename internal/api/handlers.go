package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"huddleboard/internal/analysis"
	"huddleboard/internal/data"

	"github.com/gin-gonic/gin"
)

// allowedAudioExtensions lists the upload formats the huddle endpoint
// accepts.
var allowedAudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// ListBuckets returns the bucket names in range order.
func (d *DashboardAPI) ListBuckets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"buckets": d.buckets.Names})
}

// lookupBucket resolves the :name param, answering 404 itself on a miss.
func (d *DashboardAPI) lookupBucket(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if _, ok := d.buckets.Get(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown bucket: " + name})
		return "", false
	}
	return name, true
}

// previewRows reads the optional preview row limit. expanded=true disables
// the collapse entirely.
func previewRows(c *gin.Context) int {
	if c.Query("expanded") == "true" {
		return 1 << 30
	}
	if raw := c.Query("rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return data.DefaultPreviewRows
}

// GetReservations returns the master table for a bucket.
func (d *DashboardAPI) GetReservations(c *gin.Context) {
	name, ok := d.lookupBucket(c)
	if !ok {
		return
	}
	diners, _ := d.buckets.Get(name)
	table := data.MasterTable(diners)
	c.JSON(http.StatusOK, table.Preview(previewRows(c)))
}

// GetDietary returns the dietary restrictions table for a bucket.
func (d *DashboardAPI) GetDietary(c *gin.Context) {
	name, ok := d.lookupBucket(c)
	if !ok {
		return
	}
	diners, _ := d.buckets.Get(name)
	table := data.DietaryTable(data.MasterTable(diners))
	c.JSON(http.StatusOK, table.Preview(previewRows(c)))
}

// GetOccasions returns the special occasions table for a bucket.
func (d *DashboardAPI) GetOccasions(c *gin.Context) {
	name, ok := d.lookupBucket(c)
	if !ok {
		return
	}
	diners, _ := d.buckets.Get(name)
	table := data.OccasionsTable(data.MasterTable(diners))
	c.JSON(http.StatusOK, table.Preview(previewRows(c)))
}

// GetStats returns the header statistics for a bucket.
func (d *DashboardAPI) GetStats(c *gin.Context) {
	name, ok := d.lookupBucket(c)
	if !ok {
		return
	}
	diners, _ := d.buckets.Get(name)
	stats := data.BucketStats(name, data.MasterTable(diners))
	c.JSON(http.StatusOK, stats)
}

// GetFollowUps returns the follow-up analysis for a bucket, generating it
// on first request and serving the cached report afterwards. force=true
// regenerates.
func (d *DashboardAPI) GetFollowUps(c *gin.Context) {
	bucket, ok := d.lookupBucket(c)
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	if !force {
		if report, ok := d.cache.GetReport(bucket); ok {
			c.JSON(http.StatusOK, gin.H{
				"report":    report,
				"formatted": analysis.FormatReport(report),
				"cached":    true,
			})
			return
		}
	}

	// One run per bucket at a time; a request that lost the race serves
	// the report the winner cached.
	mu := d.bucketLock(bucket)
	mu.Lock()
	defer mu.Unlock()

	if !force {
		if report, ok := d.cache.GetReport(bucket); ok {
			c.JSON(http.StatusOK, gin.H{
				"report":    report,
				"formatted": analysis.FormatReport(report),
				"cached":    true,
			})
			return
		}
	}

	diners, _ := d.buckets.Get(bucket)
	report, err := d.followup.AnalyzeBucket(c.Request.Context(), bucket, diners)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.cache.PutReport(report)
	c.JSON(http.StatusOK, gin.H{
		"report":    report,
		"formatted": analysis.FormatReport(report),
		"cached":    false,
	})
}

// TranscribeHuddle accepts an audio upload, transcribes it, and analyzes
// the transcript.
func (d *DashboardAPI) TranscribeHuddle(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAudioExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported audio format: " + ext})
		return
	}

	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer reader.Close()

	result, err := d.huddle.TranscribeAndAnalyze(c.Request.Context(), file.Filename, reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.cache.SetHuddle(result)
	d.hub.Broadcast(gin.H{"type": "huddle_analyzed", "result": result})
	c.JSON(http.StatusOK, result)
}

// GetLatestHuddle returns the most recent huddle transcription and
// analysis.
func (d *DashboardAPI) GetLatestHuddle(c *gin.Context) {
	result, ok := d.cache.LatestHuddle()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No huddle has been analyzed yet"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMetricsSummary returns the monitor snapshot.
func (d *DashboardAPI) GetMetricsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, d.monitor.GetMetrics())
}
