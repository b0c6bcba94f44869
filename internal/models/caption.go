package models

import (
	"strings"
	"time"
)

// TimestampLayout is the format of CaptionRecord.Timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// CaptionRecord represents one row of a metadata store
type CaptionRecord struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Caption      string `json:"caption"`
	Language     string `json:"language"`
	LanguageCode string `json:"languageCode"`
	Timestamp    string `json:"timestamp"`
	FileSize     int64  `json:"fileSize,omitempty"`
}

// FormatTimestamp renders t the way records store it
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// NormalizeNewlines rewrites CRLF and lone CR line breaks as LF.
// Metadata tables store line breaks as LF only.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// StoreKind selects one of the two image folders and its metadata table
type StoreKind string

const (
	StoreKindUploaded  StoreKind = "uploaded"
	StoreKindCaptioned StoreKind = "captioned"
)

// StoreKinds lists the kinds in archive order
var StoreKinds = []StoreKind{StoreKindUploaded, StoreKindCaptioned}

// IsValid reports whether k is a known store kind
func (k StoreKind) IsValid() bool {
	return k == StoreKindUploaded || k == StoreKindCaptioned
}

// SourcedRecord is a CaptionRecord together with the store it was read from
type SourcedRecord struct {
	CaptionRecord
	Source StoreKind `json:"source"`
}

// DatasetStats holds aggregate counts shown on the dataset overview
type DatasetStats struct {
	UploadedImages       int            `json:"uploadedImages"`
	CaptionedImages      int            `json:"captionedImages"`
	TotalImages          int            `json:"totalImages"`
	UploadedRecords      int            `json:"uploadedRecords"`
	CaptionedRecords     int            `json:"captionedRecords"`
	Languages            int            `json:"languages"`
	LanguageDistribution map[string]int `json:"languageDistribution"`
}
