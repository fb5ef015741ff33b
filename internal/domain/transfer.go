package domain

// ProgressFunc receives the bytes transferred so far and the expected total
// (0 when unknown).
type ProgressFunc func(current, total int64)

// Upload describes a final delivery to a chat.
type Upload struct {
	ChatID        int64
	Path          string
	FileName      string
	Caption       string
	ThumbnailPath string
}
