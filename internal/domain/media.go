package domain

import "time"

// File type tags stored in the media index. Anything else is rendered
// through the generic document path.
const (
	FileTypeVideo    = "video"
	FileTypeDocument = "document"
	FileTypeAudio    = "audio"
	FileTypePhoto    = "photo"
	FileTypeGIF      = "gif"
)

// MediaRecord is one indexed media item. FileID is the Telegram-issued
// reference used to answer inline queries without re-uploading; a record
// without it is unusable and gets dropped by the renderer.
type MediaRecord struct {
	ID           int64     `json:"id"`
	FileID       string    `json:"file_id"`
	FileUniqueID string    `json:"file_unique_id"`
	FileType     string    `json:"file_type"`
	FileName     string    `json:"file_name,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	ChatID       int64     `json:"chat_id,omitempty"`
	MessageID    int       `json:"message_id,omitempty"`
	IndexedAt    time.Time `json:"indexed_at"`
}

// Page is one fully assembled inline answer. Results holds the
// platform-defined result objects (cached video/document/audio/photo/gif
// or article placeholders); an empty NextOffset tells the client there are
// no further pages.
type Page struct {
	Results    []interface{}
	CacheTime  int
	IsPersonal bool
	NextOffset string
}

// IndexStats summarizes the media index for /stats and the status endpoint.
type IndexStats struct {
	TotalMedia int64            `json:"total_media"`
	ByType     map[string]int64 `json:"by_type"`
}
