package model

import "time"

// Resource is a downloadable file in the resource catalogue.
type Resource struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	FilePath      string    `json:"filePath"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ResourceDownload records that a lead downloaded a resource.
type ResourceDownload struct {
	ID           string    `json:"id"`
	LeadID       string    `json:"leadId"`
	ResourceID   string    `json:"resourceId"`
	DownloadedAt time.Time `json:"downloadedAt"`
}
