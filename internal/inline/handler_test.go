package inline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mediadex/internal/access"
	"mediadex/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeChecker struct {
	subscribed bool
	authorized bool
}

func (f *fakeChecker) IsSubscribed(ctx context.Context, userID int64) bool { return f.subscribed }
func (f *fakeChecker) IsAuthorized(ctx context.Context, userID int64) bool { return f.authorized }

type fakeIndex struct {
	recent     []domain.MediaRecord
	recentErr  error
	found      []domain.MediaRecord
	searchErr  error
	gotLimit   int
	gotTerm    string
	gotFilter  string
	searchHits int
}

func (f *fakeIndex) GetRecentMedia(ctx context.Context, limit int) ([]domain.MediaRecord, error) {
	f.gotLimit = limit
	return f.recent, f.recentErr
}

func (f *fakeIndex) SearchMedia(ctx context.Context, term, fileType string) ([]domain.MediaRecord, error) {
	f.searchHits++
	f.gotTerm = term
	f.gotFilter = fileType
	return f.found, f.searchErr
}

type fakeIdentity struct{ name string }

func (f fakeIdentity) Username() string { return f.name }

func testHandler(checker *fakeChecker, idx *fakeIndex) *Handler {
	return NewHandler(HandlerConfig{
		Gate:      access.NewGate(checker, testLogger()),
		Index:     idx,
		Renderer:  testRenderer(),
		Assembler: NewAssembler(300, 50),
		Identity:  fakeIdentity{name: "mediadexbot"},
		Logger:    testLogger(),
	})
}

func docRecords(n int) []domain.MediaRecord {
	recs := make([]domain.MediaRecord, n)
	for i := range recs {
		recs[i] = domain.MediaRecord{
			FileID:       fmt.Sprintf("AAAABBBBCCCC%d", i),
			FileUniqueID: fmt.Sprintf("uniq%d", i),
			FileType:     domain.FileTypeDocument,
			FileName:     fmt.Sprintf("file%d.pdf", i),
		}
	}
	return recs
}

func TestResolve_SubscriptionDenial(t *testing.T) {
	checker := &fakeChecker{subscribed: false, authorized: true}
	idx := &fakeIndex{}
	h := testHandler(checker, idx)

	for _, query := range []string{"", "anything", "a | video"} {
		page := h.Resolve(context.Background(), 42, query)
		if len(page.Results) != 1 {
			t.Fatalf("query %q: expected one result, got %d", query, len(page.Results))
		}
		if page.CacheTime != 0 {
			t.Errorf("query %q: denial must not be cached, got %d", query, page.CacheTime)
		}
	}
	if idx.searchHits != 0 || idx.gotLimit != 0 {
		t.Error("denied requester must never reach the index")
	}
}

func TestResolve_Unauthorized(t *testing.T) {
	h := testHandler(&fakeChecker{subscribed: true, authorized: false}, &fakeIndex{})

	page := h.Resolve(context.Background(), 42, "cat")
	if len(page.Results) != 1 || page.CacheTime != 0 {
		t.Fatalf("expected single uncached result, got %d results, cache %d",
			len(page.Results), page.CacheTime)
	}
}

func TestResolve_BrowseUsesFixedLimit(t *testing.T) {
	idx := &fakeIndex{recent: docRecords(10)}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "   ")
	if idx.gotLimit != recentLimit {
		t.Errorf("expected browse limit %d, got %d", recentLimit, idx.gotLimit)
	}
	if idx.searchHits != 0 {
		t.Error("empty query must not hit search")
	}
	if len(page.Results) != 10 {
		t.Errorf("expected 10 results, got %d", len(page.Results))
	}
	if page.CacheTime != browseCacheTime {
		t.Errorf("expected browse cache %d, got %d", browseCacheTime, page.CacheTime)
	}
}

func TestResolve_BrowseEmptyIndex(t *testing.T) {
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, &fakeIndex{})

	page := h.Resolve(context.Background(), 42, "")
	if len(page.Results) != 1 {
		t.Fatalf("expected one placeholder, got %d results", len(page.Results))
	}
}

func TestResolve_BrowseSourceFailure(t *testing.T) {
	idx := &fakeIndex{recentErr: errors.New("db locked")}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "")
	if len(page.Results) != 1 || page.CacheTime != 0 {
		t.Fatalf("expected single uncached error result, got %d results, cache %d",
			len(page.Results), page.CacheTime)
	}
}

func TestResolve_SearchSourceFailure(t *testing.T) {
	idx := &fakeIndex{searchErr: errors.New("db locked")}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "cat")
	if len(page.Results) != 1 || page.CacheTime != 0 {
		t.Fatalf("expected single uncached error result, got %d results, cache %d",
			len(page.Results), page.CacheTime)
	}
}

func TestResolve_SearchPassesParsedQuery(t *testing.T) {
	idx := &fakeIndex{found: docRecords(2)}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	h.Resolve(context.Background(), 42, "cat | VIDEO")
	if idx.gotTerm != "cat" {
		t.Errorf("expected term 'cat', got %q", idx.gotTerm)
	}
	if idx.gotFilter != "video" {
		t.Errorf("expected filter 'video', got %q", idx.gotFilter)
	}
}

func TestResolve_SearchNotFoundEchoesTerm(t *testing.T) {
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, &fakeIndex{})

	page := h.Resolve(context.Background(), 42, "rarething")
	if len(page.Results) != 1 {
		t.Fatalf("expected one placeholder, got %d results", len(page.Results))
	}
	article := page.Results[0].(tgbotapi.InlineQueryResultArticle)
	if !strings.Contains(article.Description, "rarething") {
		t.Errorf("placeholder should echo the term, got %q", article.Description)
	}
}

func TestResolve_InvalidRecordDropped(t *testing.T) {
	recs := docRecords(3)
	recs[1].FileID = "" // must be dropped without disturbing neighbors
	idx := &fakeIndex{found: recs}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "file")
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results after drop, got %d", len(page.Results))
	}
	first := page.Results[0].(tgbotapi.InlineQueryResultCachedDocument)
	second := page.Results[1].(tgbotapi.InlineQueryResultCachedDocument)
	if first.ID != "doc_0" || second.ID != "doc_2" {
		t.Errorf("surviving records keep their positions, got %q and %q", first.ID, second.ID)
	}
}

func TestResolve_PageNeverExceedsFifty(t *testing.T) {
	idx := &fakeIndex{found: docRecords(60)}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "file")
	if len(page.Results) != 50 {
		t.Fatalf("expected 50 results, got %d", len(page.Results))
	}
	if page.NextOffset != "60" {
		t.Errorf("expected offset '60', got %q", page.NextOffset)
	}
}

func TestResolve_NoOffsetBelowThreshold(t *testing.T) {
	idx := &fakeIndex{found: docRecords(5)}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	page := h.Resolve(context.Background(), 42, "file")
	if page.NextOffset != "" {
		t.Errorf("expected empty offset, got %q", page.NextOffset)
	}
}

func TestResolve_AlwaysPersonal(t *testing.T) {
	idx := &fakeIndex{found: docRecords(1)}
	h := testHandler(&fakeChecker{subscribed: true, authorized: true}, idx)

	for _, query := range []string{"", "cat"} {
		if page := h.Resolve(context.Background(), 42, query); !page.IsPersonal {
			t.Errorf("query %q: page must be personal", query)
		}
	}
}
