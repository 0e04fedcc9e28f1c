package inline

import (
	"fmt"
	"strconv"

	"mediadex/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// maxPageSize is the hard cap Telegram places on one inline answer.
	maxPageSize = 50
	// recentLimit is how many items browse mode surfaces.
	recentLimit = 10
	// browseCacheTime keeps browse answers short-lived so fresh uploads
	// show up quickly.
	browseCacheTime = 5
)

// Assembler turns rendered results into answer pages. It only reads its
// configuration; all pages are marked personal because they depend on the
// requester's authorization state.
type Assembler struct {
	cacheTime  int
	maxResults int
}

func NewAssembler(cacheTime, maxResults int) *Assembler {
	return &Assembler{cacheTime: cacheTime, maxResults: maxResults}
}

// SubscriptionRequired is the gate answer for users who have not joined
// the required channel. Never cached.
func (a *Assembler) SubscriptionRequired(botUsername string) domain.Page {
	article := tgbotapi.NewInlineQueryResultArticle(
		"auth_required", "🔒 Authorization Required", fmt.Sprintf(
			"🔒 You need to join our channel to use this bot.\nStart the bot @%s for more information.",
			botUsername))
	article.Description = "Join our channel to use this bot"
	return singlePage(article, 0)
}

// Unauthorized is the gate answer for users failing the allow-list. Never
// cached.
func (a *Assembler) Unauthorized() domain.Page {
	article := tgbotapi.NewInlineQueryResultArticle(
		"unauthorized", "❌ Unauthorized Access",
		"❌ You are not authorized to use this bot.\nContact an administrator for access.")
	article.Description = "Contact an administrator for access"
	return singlePage(article, 0)
}

// BrowseFailure is the terminal answer when the recent-media lookup fails.
func (a *Assembler) BrowseFailure() domain.Page {
	article := tgbotapi.NewInlineQueryResultArticleHTML(
		"browse_error", "🔍 Search Your Media",
		"🔍 <b>Search your media</b>\n\nType a search query to find specific content.")
	article.Description = "Type to search the media index"
	return singlePage(article, 0)
}

// SearchFailure is the terminal answer when the search lookup fails.
func (a *Assembler) SearchFailure() domain.Page {
	article := tgbotapi.NewInlineQueryResultArticleHTML(
		"search_error", "❌ Search Error",
		"❌ <b>Search Error</b>\n\nPlease try again later.")
	article.Description = "An error occurred while searching"
	return singlePage(article, 0)
}

// BrowsePage assembles the browse-mode answer. An empty result set becomes
// a single informational placeholder.
func (a *Assembler) BrowsePage(results []interface{}) domain.Page {
	if len(results) == 0 {
		article := tgbotapi.NewInlineQueryResultArticleHTML(
			"no_recent", "🎬 No Recent Media",
			"🎬 <b>No recent media found</b>\n\nRecent uploads will appear here once indexed.\nType a search term to find specific content.")
		article.Description = "Indexed media will appear here"
		return singlePage(article, browseCacheTime)
	}
	return domain.Page{Results: results, CacheTime: browseCacheTime, IsPersonal: true}
}

// SearchPage assembles the search-mode answer: cap at the page size and
// emit a continuation offset when the source returned enough records that
// there may be more. The offset carries the source count, not the rendered
// count.
func (a *Assembler) SearchPage(term string, results []interface{}, sourceCount int) domain.Page {
	if len(results) == 0 {
		article := tgbotapi.NewInlineQueryResultArticleHTML(
			"no_results", "🔍 Not Found", fmt.Sprintf(
				"🔍 <b>Not Found</b>\n\nNo media found for: <code>%s</code>", term))
		article.Description = fmt.Sprintf("No results for '%s'", term)
		return singlePage(article, a.cacheTime)
	}

	if len(results) > maxPageSize {
		results = results[:maxPageSize]
	}
	nextOffset := ""
	if sourceCount >= a.maxResults {
		nextOffset = strconv.Itoa(sourceCount)
	}
	return domain.Page{
		Results:    results,
		CacheTime:  a.cacheTime,
		IsPersonal: true,
		NextOffset: nextOffset,
	}
}

func singlePage(result interface{}, cacheTime int) domain.Page {
	return domain.Page{
		Results:    []interface{}{result},
		CacheTime:  cacheTime,
		IsPersonal: true,
	}
}
