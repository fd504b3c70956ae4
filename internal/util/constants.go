package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

// PassingPercentage is the history-summary threshold for counting a
// completed attempt as passed.
const PassingPercentage = 70.0

// AccessGrantDays is how long a category purchase stays valid.
const AccessGrantDays = 30
