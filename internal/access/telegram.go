package access

import (
	"context"
	"log/slog"
	"strconv"

	"mediadex/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MemberAPI is the slice of the Telegram Bot API the checker needs.
type MemberAPI interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// TelegramChecker implements domain.AccessChecker against the Bot API and
// the persisted grant list.
type TelegramChecker struct {
	api             MemberAPI
	requiredChannel string
	allowFrom       []int64
	grants          domain.AuthStore
	logger          *slog.Logger
}

type TelegramCheckerConfig struct {
	API             MemberAPI
	RequiredChannel string // "@name" or numeric chat ID; empty disables the check
	AllowFrom       []int64
	Grants          domain.AuthStore
	Logger          *slog.Logger
}

func NewTelegramChecker(cfg TelegramCheckerConfig) *TelegramChecker {
	return &TelegramChecker{
		api:             cfg.API,
		requiredChannel: cfg.RequiredChannel,
		allowFrom:       cfg.AllowFrom,
		grants:          cfg.Grants,
		logger:          cfg.Logger,
	}
}

// IsSubscribed reports whether the user has joined the required channel.
// Transport errors count as not subscribed.
func (c *TelegramChecker) IsSubscribed(ctx context.Context, userID int64) bool {
	if c.requiredChannel == "" {
		return true
	}

	memberCfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if chatID, err := strconv.ParseInt(c.requiredChannel, 10, 64); err == nil {
		memberCfg.ChatID = chatID
	} else {
		memberCfg.SuperGroupUsername = c.requiredChannel
	}

	member, err := c.api.GetChatMember(memberCfg)
	if err != nil {
		c.logger.Warn("chat member lookup failed",
			"channel", c.requiredChannel, "user_id", userID, "err", err)
		return false
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true
	}
	return false
}

// IsAuthorized reports whether the user may query the index. The
// effective allow-list is the union of the configured IDs and the runtime
// grants; only when both are empty is everyone authorized.
func (c *TelegramChecker) IsAuthorized(ctx context.Context, userID int64) bool {
	for _, id := range c.allowFrom {
		if id == userID {
			return true
		}
	}
	if c.grants != nil {
		granted, err := c.grants.IsGranted(ctx, userID)
		if err != nil {
			c.logger.Warn("grant lookup failed", "user_id", userID, "err", err)
			return false
		}
		if granted {
			return true
		}
	}
	if len(c.allowFrom) > 0 {
		return false
	}
	if c.grants == nil {
		return true
	}
	populated, err := c.grants.HasGrants(ctx)
	if err != nil {
		c.logger.Warn("grant lookup failed", "user_id", userID, "err", err)
		return false
	}
	return !populated
}
