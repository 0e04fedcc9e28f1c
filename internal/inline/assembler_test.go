package inline

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func fakeResults(n int) []interface{} {
	results := make([]interface{}, n)
	for i := range results {
		results[i] = tgbotapi.NewInlineQueryResultArticle("r", "r", "r")
	}
	return results
}

func TestSubscriptionRequired_NeverCached(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.SubscriptionRequired("mediadexbot")

	if len(page.Results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(page.Results))
	}
	if page.CacheTime != 0 {
		t.Errorf("gate denial must not be cached, got cache %d", page.CacheTime)
	}
	if !page.IsPersonal {
		t.Error("gate denial must be personal")
	}
	article := page.Results[0].(tgbotapi.InlineQueryResultArticle)
	content := article.InputMessageContent.(tgbotapi.InputTextMessageContent)
	if !strings.Contains(content.Text, "@mediadexbot") {
		t.Errorf("denial text should reference the bot identity, got %q", content.Text)
	}
}

func TestUnauthorized_NeverCached(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.Unauthorized()

	if len(page.Results) != 1 || page.CacheTime != 0 || !page.IsPersonal {
		t.Fatalf("unexpected page: %d results, cache %d, personal %v",
			len(page.Results), page.CacheTime, page.IsPersonal)
	}
}

func TestSourceFailures_NeverCached(t *testing.T) {
	a := NewAssembler(300, 50)

	browse := a.BrowseFailure()
	if len(browse.Results) != 1 || browse.CacheTime != 0 {
		t.Errorf("browse failure: expected one uncached result, got %d results, cache %d",
			len(browse.Results), browse.CacheTime)
	}

	search := a.SearchFailure()
	if len(search.Results) != 1 || search.CacheTime != 0 {
		t.Errorf("search failure: expected one uncached result, got %d results, cache %d",
			len(search.Results), search.CacheTime)
	}
}

func TestBrowsePage_EmptyGetsPlaceholder(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.BrowsePage(nil)

	if len(page.Results) != 1 {
		t.Fatalf("expected placeholder result, got %d results", len(page.Results))
	}
	if page.CacheTime != browseCacheTime {
		t.Errorf("expected cache %d, got %d", browseCacheTime, page.CacheTime)
	}
}

func TestBrowsePage_ShortCache(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.BrowsePage(fakeResults(3))

	if len(page.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(page.Results))
	}
	if page.CacheTime != browseCacheTime {
		t.Errorf("browse pages cache for %d, got %d", browseCacheTime, page.CacheTime)
	}
	if page.NextOffset != "" {
		t.Errorf("browse pages never paginate, got offset %q", page.NextOffset)
	}
}

func TestSearchPage_NotFoundEchoesTerm(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.SearchPage("kittens", nil, 0)

	if len(page.Results) != 1 {
		t.Fatalf("expected placeholder, got %d results", len(page.Results))
	}
	if page.CacheTime != 300 {
		t.Errorf("not-found uses the configured cache, got %d", page.CacheTime)
	}
	article := page.Results[0].(tgbotapi.InlineQueryResultArticle)
	if !strings.Contains(article.Description, "kittens") {
		t.Errorf("placeholder should echo the term, got %q", article.Description)
	}
	content := article.InputMessageContent.(tgbotapi.InputTextMessageContent)
	if !strings.Contains(content.Text, "kittens") {
		t.Errorf("placeholder content should echo the term, got %q", content.Text)
	}
}

func TestSearchPage_CapsAtFifty(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.SearchPage("x", fakeResults(60), 60)

	if len(page.Results) != maxPageSize {
		t.Fatalf("expected %d results, got %d", maxPageSize, len(page.Results))
	}
}

func TestSearchPage_OffsetAtThreshold(t *testing.T) {
	a := NewAssembler(300, 50)

	page := a.SearchPage("x", fakeResults(55), 55)
	if page.NextOffset != "55" {
		t.Errorf("expected offset '55' (source count), got %q", page.NextOffset)
	}

	page = a.SearchPage("x", fakeResults(49), 49)
	if page.NextOffset != "" {
		t.Errorf("below threshold the offset must be empty, got %q", page.NextOffset)
	}
}

func TestSearchPage_Personal(t *testing.T) {
	a := NewAssembler(300, 50)
	page := a.SearchPage("x", fakeResults(2), 2)

	if !page.IsPersonal {
		t.Error("search pages must be personal")
	}
	if page.CacheTime != 300 {
		t.Errorf("expected configured cache 300, got %d", page.CacheTime)
	}
}
