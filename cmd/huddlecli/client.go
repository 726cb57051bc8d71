package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// ApiClient handles API requests to the Huddleboard API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("HUDDLEBOARD_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Minute * 5, // follow-up runs wait on the LLM
		},
		BaseURL: baseURL,
		Token:   os.Getenv("HUDDLEBOARD_API_TOKEN"),
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// get performs an authorized GET and decodes the JSON response into out.
func (c *ApiClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request %s failed with status %d: %s", path, resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ListBuckets returns the available date-range buckets.
func (c *ApiClient) ListBuckets() ([]string, error) {
	var result struct {
		Buckets []string `json:"buckets"`
	}
	if err := c.get("/api/v1/buckets", &result); err != nil {
		return nil, err
	}
	return result.Buckets, nil
}

// Stats mirrors the dashboard statistics payload.
type Stats struct {
	Bucket            string `json:"bucket"`
	TotalReservations int    `json:"total_reservations"`
	TotalGuests       int    `json:"total_guests"`
	DinersWithDietary int    `json:"diners_with_dietary"`
	SpecialOccasions  int    `json:"special_occasions"`
}

// GetStats fetches statistics for a bucket.
func (c *ApiClient) GetStats(bucket string) (*Stats, error) {
	var stats Stats
	if err := c.get("/api/v1/buckets/"+url.PathEscape(bucket)+"/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FollowUpResponse mirrors the follow-up endpoint payload.
type FollowUpResponse struct {
	Formatted string `json:"formatted"`
	Cached    bool   `json:"cached"`
}

// GetFollowUps fetches (or generates) the follow-up report for a bucket.
func (c *ApiClient) GetFollowUps(bucket string, force bool) (*FollowUpResponse, error) {
	path := "/api/v1/buckets/" + url.PathEscape(bucket) + "/followups"
	if force {
		path += "?force=true"
	}
	var result FollowUpResponse
	if err := c.get(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HuddleResult mirrors the huddle endpoint payload.
type HuddleResult struct {
	Transcript string `json:"transcript"`
	Analysis   struct {
		Summary     string   `json:"summary"`
		ActionItems []string `json:"action_items"`
	} `json:"analysis"`
}

// TranscribeHuddle uploads a recording for transcription and analysis.
func (c *ApiClient) TranscribeHuddle(path string) (*HuddleResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/v1/huddle/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, string(data))
	}

	var result HuddleResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
