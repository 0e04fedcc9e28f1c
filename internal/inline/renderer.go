package inline

import (
	"fmt"
	"log/slog"
	"strings"

	"mediadex/internal/domain"
	"mediadex/internal/metrics"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxDisplayName = 50
	displayNameCut = 47
	captionCut     = 100
	minFileIDLen   = 8
)

var typeEmoji = map[string]string{
	domain.FileTypeVideo:    "🎬",
	domain.FileTypeDocument: "📄",
	domain.FileTypeAudio:    "🎵",
	domain.FileTypePhoto:    "🖼",
	domain.FileTypeGIF:      "🎞",
}

const genericEmoji = "📁"

func fileTypeEmoji(fileType string) string {
	if e, ok := typeEmoji[fileType]; ok {
		return e
	}
	return genericEmoji
}

// truncateRunes cuts s to keep runes plus "..." when it exceeds max
// characters. Limits count characters, not bytes, so multi-byte names are
// never sliced mid-rune.
func truncateRunes(s string, max, keep int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:keep]) + "..."
}

// videoBuilder constructs the cached-video result for one record. It may
// reject the record, in which case the renderer degrades to a cached
// document instead of dropping the record.
type videoBuilder func(id, fileID, title, description, caption string, keyboard tgbotapi.InlineKeyboardMarkup) (interface{}, error)

// Renderer maps media records to inline result objects. It holds no
// per-query state; one instance serves all queries.
type Renderer struct {
	channelURL string
	captionTag string
	logger     *slog.Logger
	buildVideo videoBuilder
}

type RendererConfig struct {
	ChannelURL string // join link on the video keyboard
	CaptionTag string // appended to delivered video captions
	Logger     *slog.Logger
}

func NewRenderer(cfg RendererConfig) *Renderer {
	return &Renderer{
		channelURL: cfg.ChannelURL,
		captionTag: cfg.CaptionTag,
		logger:     cfg.Logger,
		buildVideo: defaultVideoBuilder,
	}
}

func defaultVideoBuilder(id, fileID, title, description, caption string, keyboard tgbotapi.InlineKeyboardMarkup) (interface{}, error) {
	if len(fileID) < minFileIDLen || strings.ContainsAny(fileID, " \t\n") {
		return nil, fmt.Errorf("file id %q is not usable as a video reference", fileID)
	}
	video := tgbotapi.NewInlineQueryResultCachedVideo(id, fileID, title)
	video.Description = description
	video.Caption = caption
	video.ReplyMarkup = &keyboard
	return video, nil
}

// Render maps one record at the given page position to an inline result.
// Records without a file ID, and records whose construction fails, yield
// (nil, false); the caller moves on to the next record.
func (r *Renderer) Render(rec domain.MediaRecord, index int) (interface{}, bool) {
	if rec.FileID == "" {
		r.logger.Warn("skipping media without file id",
			"stage", "render", "index", index, "unique_id", rec.FileUniqueID)
		metrics.RecordSkipsTotal.Inc()
		return nil, false
	}

	fileType := rec.FileType
	if fileType == "" {
		fileType = domain.FileTypeDocument
	}

	displayName := rec.FileName
	if displayName == "" {
		displayName = "Unknown"
	}
	displayName = truncateRunes(displayName, maxDisplayName, displayNameCut)

	description := "Unknown size"
	if rec.FileSize > 0 {
		description = humanize.Bytes(uint64(rec.FileSize))
	}
	if rec.Caption != "" {
		description += " • " + truncateRunes(rec.Caption, captionCut, captionCut)
	}

	title := fileTypeEmoji(fileType) + " " + displayName

	switch fileType {
	case domain.FileTypeVideo:
		return r.renderVideo(rec, index, displayName, title, description)

	case domain.FileTypeDocument:
		doc := tgbotapi.NewInlineQueryResultCachedDocument(
			fmt.Sprintf("doc_%d", index), rec.FileID, title)
		doc.Description = description
		return doc, true

	case domain.FileTypeAudio:
		// Audio results carry no title or description; the client
		// derives display from the file metadata.
		return tgbotapi.NewInlineQueryResultCachedAudio(
			fmt.Sprintf("audio_%d", index), rec.FileID), true

	case domain.FileTypePhoto:
		return tgbotapi.NewInlineQueryResultCachedPhoto(
			fmt.Sprintf("photo_%d", index), rec.FileID), true

	case domain.FileTypeGIF:
		gif := tgbotapi.NewInlineQueryResultCachedGIF(
			fmt.Sprintf("gif_%d", index), rec.FileID)
		gif.Title = title
		return gif, true

	default:
		doc := tgbotapi.NewInlineQueryResultCachedDocument(
			fmt.Sprintf("file_%d", index), rec.FileID, title)
		doc.Description = description
		return doc, true
	}
}

// renderVideo attempts the cached-video result and degrades to a cached
// document when the builder rejects the record. The caller sees one result
// either way.
func (r *Renderer) renderVideo(rec domain.MediaRecord, index int, displayName, title, description string) (interface{}, bool) {
	searchCurrentChat := ""
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{Text: "🔍 Search", SwitchInlineQueryCurrentChat: &searchCurrentChat},
			tgbotapi.NewInlineKeyboardButtonURL("📢 Join", r.channelURL),
		),
	)

	caption := rec.FileName
	if r.captionTag != "" {
		caption += "\n\n" + r.captionTag
	}

	result, err := r.buildVideo(fmt.Sprintf("video_%d", index),
		rec.FileID, title, description, caption, keyboard)
	if err != nil {
		r.logger.Warn("video result rejected, falling back to document",
			"stage", "render", "index", index, "unique_id", rec.FileUniqueID, "err", err)
		metrics.VideoFallbacksTotal.Inc()
		doc := tgbotapi.NewInlineQueryResultCachedDocument(
			fmt.Sprintf("doc_fallback_%d", index), rec.FileID, "📄 "+displayName)
		doc.Description = description
		return doc, true
	}
	return result, true
}
