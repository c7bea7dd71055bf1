package domain

import "time"

// BulkFile is a downloadable file published to the bulk download bucket.
type BulkFile struct {
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"updated_date"`
}
