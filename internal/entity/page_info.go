package entity

import "time"

// PageInfo is a read-only snapshot of the attached page, computed on demand.
type PageInfo struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain"`
	ImageCount  int       `json:"imageCount"`
	VideoCount  int       `json:"videoCount"`
	LinkCount   int       `json:"linkCount"`
	ContentType string    `json:"contentType"`
	Platform    string    `json:"platform"`
	CapturedAt  time.Time `json:"capturedAt"`
}

// ScanResult is the payload returned for a completed scan-page request.
type ScanResult struct {
	Success   bool          `json:"success"`
	PageInfo  *PageInfo     `json:"pageInfo"`
	Images    []ImageRecord `json:"images"`
	Timestamp time.Time     `json:"timestamp"`
}
