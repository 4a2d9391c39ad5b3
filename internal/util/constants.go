package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
	// DisplayTimeFormat matches the results table, e.g. "05 Jan 2026, 09:30 AM".
	DisplayTimeFormat = "02 Jan 2006, 03:04 PM"
)

const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeCSV = "text/csv; charset=utf-8"
	MimePDF = "application/pdf"
)
