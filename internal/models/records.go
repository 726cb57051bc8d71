package models

import (
	"encoding/json"

	"github.com/jinzhu/gorm"
)

// FollowUpRecord persists a generated follow-up report so the cache can be
// warmed after a restart. Payload holds the serialized FollowUpReport.
type FollowUpRecord struct {
	gorm.Model
	Bucket  string `gorm:"index"`
	Payload string `gorm:"type:text"`
}

// HuddleRecord persists a huddle transcription together with its analysis.
type HuddleRecord struct {
	gorm.Model
	Transcript string `gorm:"type:text"`
	Payload    string `gorm:"type:text"`
}

// SetReport serializes a follow-up report into the record payload.
func (r *FollowUpRecord) SetReport(report *FollowUpReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	r.Bucket = report.Bucket
	r.Payload = string(data)
	return nil
}

// Report deserializes the record payload back into a follow-up report.
func (r *FollowUpRecord) Report() (*FollowUpReport, error) {
	var report FollowUpReport
	if err := json.Unmarshal([]byte(r.Payload), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SetResult serializes a huddle result into the record payload.
func (r *HuddleRecord) SetResult(result *HuddleResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	r.Transcript = result.Transcript
	r.Payload = string(data)
	return nil
}

// Result deserializes the record payload back into a huddle result.
func (r *HuddleRecord) Result() (*HuddleResult, error) {
	var result HuddleResult
	if err := json.Unmarshal([]byte(r.Payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
