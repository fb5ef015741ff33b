package domain

// MediaKind classifies an inbound media message.
type MediaKind int

const (
	MediaVideo MediaKind = iota + 1
	MediaPhoto
	// MediaOther is any document that is not a video.
	MediaOther
)

// MediaEvent is an inbound media message.
type MediaEvent struct {
	ChatID    int64
	MessageID int
	Kind      MediaKind
	Media     MediaRef
}

// ButtonEvent is an inline keyboard press.
type ButtonEvent struct {
	ChatID     int64
	MessageID  int
	CallbackID string
	Data       string
}

// TextEvent is an inbound free-text message.
type TextEvent struct {
	ChatID    int64
	MessageID int
	Text      string
}
