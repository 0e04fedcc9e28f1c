// Package bot runs the Telegram transport: it polls for updates, routes
// inline queries into the resolution pipeline, indexes media posted to the
// configured channels, and serves a handful of chat commands.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"mediadex/internal/access"
	"mediadex/internal/config"
	"mediadex/internal/domain"
	"mediadex/internal/inline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 30

// Bot wires the Telegram Bot API to the inline pipeline and the media
// index.
type Bot struct {
	cfg    *config.Config
	store  domain.MediaStore
	auth   domain.AuthStore
	logger *slog.Logger

	api       *tgbotapi.BotAPI
	handler   *inline.Handler
	admins    []int64
	indexFrom []int64
}

type Config struct {
	Config *config.Config
	Store  domain.MediaStore
	Auth   domain.AuthStore
	Logger *slog.Logger
}

func New(cfg Config) *Bot {
	return &Bot{
		cfg:       cfg.Config,
		store:     cfg.Store,
		auth:      cfg.Auth,
		logger:    cfg.Logger,
		admins:    cfg.Config.Bot.Admins.Int64s(),
		indexFrom: cfg.Config.Index.IndexFrom.Int64s(),
	}
}

// selfIdentity exposes the connected bot's username to the pipeline.
type selfIdentity struct {
	api *tgbotapi.BotAPI
}

func (s selfIdentity) Username() string { return s.api.Self.UserName }

// Start connects to Telegram and polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	api, err := tgbotapi.NewBotAPI(b.cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}
	b.api = api
	b.logger.Info("telegram bot connected",
		"username", api.Self.UserName,
		"id", api.Self.ID,
	)

	checker := access.NewTelegramChecker(access.TelegramCheckerConfig{
		API:             api,
		RequiredChannel: b.cfg.Bot.RequiredChannel,
		AllowFrom:       b.cfg.Auth.AllowFrom.Int64s(),
		Grants:          b.auth,
		Logger:          b.logger,
	})

	b.handler = inline.NewHandler(inline.HandlerConfig{
		Gate:  access.NewGate(checker, b.logger),
		Index: b.store,
		Renderer: inline.NewRenderer(inline.RendererConfig{
			ChannelURL: b.cfg.Bot.ChannelURL,
			CaptionTag: b.cfg.Bot.CaptionTag,
			Logger:     b.logger,
		}),
		Assembler: inline.NewAssembler(b.cfg.Search.CacheTime, b.cfg.Search.MaxResults),
		Identity:  selfIdentity{api: api},
		API:       api,
		Logger:    b.logger,
	})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	u.AllowedUpdates = []string{"message", "channel_post", "inline_query"}
	updates := api.GetUpdatesChan(u)

	b.logger.Info("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("telegram bot stopping")
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.InlineQuery != nil:
		// Inline queries are independent units of work; handle each on
		// its own goroutine so a slow lookup does not stall polling.
		go b.handler.Handle(ctx, update.InlineQuery)

	case update.ChannelPost != nil:
		b.indexMessage(ctx, update.ChannelPost)

	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Media sent directly by an admin gets indexed too.
	if b.isAdmin(msg.From.ID) {
		b.indexMessage(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, fmt.Sprintf(
			"👋 Hello! I'm @%s, your media search bot.\n\nType @%s <term> in any chat to search the index, or leave the query empty to browse recent uploads.\n\nCommands:\n/stats — Index statistics\n/help — Show usage",
			b.api.Self.UserName, b.api.Self.UserName))
	case "help":
		b.sendMessage(chatID,
			"📖 Usage\n\nInline search: type @"+b.api.Self.UserName+" followed by a search term.\nFilter by type with \" | \", e.g. \"lecture | video\".\nSupported types: video, document, audio, photo, gif.\n\nAn empty query shows the 10 most recent uploads.")
	case "stats":
		b.sendStats(ctx, chatID)
	case "grant":
		b.handleGrant(ctx, msg, true)
	case "revoke":
		b.handleGrant(ctx, msg, false)
	default:
		b.sendMessage(chatID, "Unknown command. Type /help for usage.")
	}
}

func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	stats, err := b.store.Stats(ctx)
	if err != nil {
		b.logger.Error("stats query failed", "err", err)
		b.sendMessage(chatID, "❌ Could not read index statistics.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Index: %d items\n", stats.TotalMedia)
	for _, fileType := range []string{
		domain.FileTypeVideo, domain.FileTypeDocument, domain.FileTypeAudio,
		domain.FileTypePhoto, domain.FileTypeGIF,
	} {
		if n := stats.ByType[fileType]; n > 0 {
			fmt.Fprintf(&sb, "%s %s: %d\n", fileTypeLabel(fileType), fileType, n)
		}
	}
	b.sendMessage(chatID, sb.String())
}

func fileTypeLabel(fileType string) string {
	switch fileType {
	case domain.FileTypeVideo:
		return "🎬"
	case domain.FileTypeAudio:
		return "🎵"
	case domain.FileTypePhoto:
		return "🖼"
	case domain.FileTypeGIF:
		return "🎞"
	}
	return "📄"
}

func (b *Bot) handleGrant(ctx context.Context, msg *tgbotapi.Message, grant bool) {
	chatID := msg.Chat.ID
	if !b.isAdmin(msg.From.ID) {
		b.sendMessage(chatID, "⛔ Admin only.")
		return
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.sendMessage(chatID, "Usage: /"+msg.Command()+" <user id>")
		return
	}

	if grant {
		err = b.auth.GrantUser(ctx, userID, msg.From.ID)
	} else {
		err = b.auth.RevokeUser(ctx, userID)
	}
	if err != nil {
		b.logger.Error("grant update failed", "user_id", userID, "grant", grant, "err", err)
		b.sendMessage(chatID, "❌ Could not update the allow-list.")
		return
	}
	if grant {
		b.sendMessage(chatID, fmt.Sprintf("✅ User %d granted access.", userID))
	} else {
		b.sendMessage(chatID, fmt.Sprintf("✅ User %d revoked.", userID))
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.admins {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("telegram send failed", "chat_id", chatID, "err", err)
	}
}
