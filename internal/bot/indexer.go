package bot

import (
	"context"

	"mediadex/internal/domain"
	"mediadex/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// indexMessage extracts media from a message and writes it to the index.
func (b *Bot) indexMessage(ctx context.Context, msg *tgbotapi.Message) {
	rec, ok := mediaFromMessage(msg)
	if !ok {
		return
	}
	if !b.shouldIndex(msg.Chat.ID) {
		return
	}

	if err := b.store.SaveMedia(ctx, rec); err != nil {
		b.logger.Error("media index write failed",
			"type", rec.FileType, "unique_id", rec.FileUniqueID, "err", err)
		return
	}
	metrics.MediaIndexedTotal.Inc()
	b.logger.Info("media indexed",
		"type", rec.FileType,
		"name", rec.FileName,
		"unique_id", rec.FileUniqueID,
		"chat_id", msg.Chat.ID,
	)
}

// shouldIndex applies the chat allow-list for indexing. Empty list =
// index everything the bot sees.
func (b *Bot) shouldIndex(chatID int64) bool {
	if len(b.indexFrom) == 0 {
		return true
	}
	for _, id := range b.indexFrom {
		if id == chatID {
			return true
		}
	}
	return false
}

// mediaFromMessage maps a Telegram message to an indexable record. The
// animation check comes before document: Telegram attaches a legacy
// Document to animation messages.
func mediaFromMessage(msg *tgbotapi.Message) (domain.MediaRecord, bool) {
	if msg == nil || msg.Chat == nil {
		return domain.MediaRecord{}, false
	}

	rec := domain.MediaRecord{
		Caption:   msg.Caption,
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
	}

	switch {
	case msg.Video != nil:
		rec.FileID = msg.Video.FileID
		rec.FileUniqueID = msg.Video.FileUniqueID
		rec.FileType = domain.FileTypeVideo
		rec.FileName = msg.Video.FileName
		rec.FileSize = int64(msg.Video.FileSize)

	case msg.Animation != nil:
		rec.FileID = msg.Animation.FileID
		rec.FileUniqueID = msg.Animation.FileUniqueID
		rec.FileType = domain.FileTypeGIF
		rec.FileName = msg.Animation.FileName
		rec.FileSize = int64(msg.Animation.FileSize)

	case msg.Document != nil:
		rec.FileID = msg.Document.FileID
		rec.FileUniqueID = msg.Document.FileUniqueID
		rec.FileType = domain.FileTypeDocument
		rec.FileName = msg.Document.FileName
		rec.FileSize = int64(msg.Document.FileSize)

	case msg.Audio != nil:
		rec.FileID = msg.Audio.FileID
		rec.FileUniqueID = msg.Audio.FileUniqueID
		rec.FileType = domain.FileTypeAudio
		rec.FileName = msg.Audio.FileName
		if rec.FileName == "" {
			rec.FileName = msg.Audio.Title
		}
		rec.FileSize = int64(msg.Audio.FileSize)

	case len(msg.Photo) > 0:
		// Largest size is last.
		photo := msg.Photo[len(msg.Photo)-1]
		rec.FileID = photo.FileID
		rec.FileUniqueID = photo.FileUniqueID
		rec.FileType = domain.FileTypePhoto
		rec.FileSize = int64(photo.FileSize)

	default:
		return domain.MediaRecord{}, false
	}

	return rec, true
}
