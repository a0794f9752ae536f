package live

import (
	"html/template"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bullpen/internal/models"
)

// tempPrefix guarantees optimistic ids never collide with server ids, which
// are plain decimals.
const tempPrefix = "temp-"

// Comment is the feed's view of a comment. Server rows and optimistic local
// entries share this shape; only the id format tells them apart.
type Comment struct {
	ID            string        `json:"id"`
	ThreadID      uint          `json:"thread_id"`
	AuthorID      uint          `json:"author_id"`
	AuthorName    string        `json:"author_name"`
	Content       string        `json:"content"`
	ContentHTML   template.HTML `json:"content_html,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	Pending       bool          `json:"pending"` // optimistic, awaiting server confirmation
	CorrelationID string        `json:"correlation_id,omitempty"`
}

// ServerID renders a persisted comment id in feed form.
func ServerID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// FromModel converts a persisted comment into a feed entry.
func FromModel(c models.Comment) Comment {
	return Comment{
		ID:          ServerID(c.ID),
		ThreadID:    c.ThreadID,
		AuthorID:    c.AuthorID,
		AuthorName:  c.Author.Name(),
		Content:     c.Content,
		ContentHTML: c.ContentHTML,
		CreatedAt:   c.CreatedAt,
	}
}

// ThreadFeed merges the comment sources for one open thread view (initial
// page, "load more" pages, optimistic local inserts, realtime push events)
// into one consistent list. Arrival order across the sources
// is not controlled, so de-duplication by id is the sole correctness
// mechanism, and created_at is the sole ordering key.
type ThreadFeed struct {
	mu           sync.Mutex
	viewerID     uint
	lastViewedAt time.Time

	comments []Comment
	present  map[string]struct{}
	seen     map[string]struct{} // ids read this session
	total    int
	page     int // request-count-based cursor, not item-count-based
}

func NewThreadFeed(viewerID uint, lastViewedAt time.Time) *ThreadFeed {
	return &ThreadFeed{
		viewerID:     viewerID,
		lastViewedAt: lastViewedAt,
		present:      make(map[string]struct{}),
		seen:         make(map[string]struct{}),
	}
}

// Seed installs the server-provided first page and the known total.
func (f *ThreadFeed) Seed(first []Comment, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range first {
		f.insertLocked(c)
	}
	f.total = total
	f.page = 1
}

// NextPage is the page number the next load-more request should fetch.
func (f *ThreadFeed) NextPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page + 1
}

// MergePage folds a fetched page into the feed, dropping any id already
// present (pages can overlap when comments land concurrently). The cursor
// advances by exactly one per call regardless of how many items were new.
func (f *ThreadFeed) MergePage(page []Comment) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	added := 0
	for _, c := range page {
		if f.insertLocked(c) {
			added++
		}
	}
	f.page++
	return added
}

// AddOptimistic appends a local, unconfirmed comment immediately. The
// returned entry carries a temp id and a correlation id the create request
// must echo back so the authoritative row can replace it.
func (f *ThreadFeed) AddOptimistic(authorName, content string) Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	correlation := uuid.NewString()
	c := Comment{
		ID:            tempPrefix + correlation,
		AuthorID:      f.viewerID,
		AuthorName:    authorName,
		Content:       content,
		CreatedAt:     time.Now(),
		Pending:       true,
		CorrelationID: correlation,
	}
	f.insertLocked(c)
	f.total++
	f.seen[c.ID] = struct{}{}
	return c
}

// ConfirmOptimistic splices the authoritative row in place of the temp
// entry with the given correlation id. If the real row already arrived
// through another channel the temp entry is simply dropped; the count the
// optimistic insert added carries over to the authoritative row either way.
// Total moves only in AddOptimistic, FailOptimistic and ApplyEvent; inserts
// that deduplicate never adjust it.
func (f *ThreadFeed) ConfirmOptimistic(correlationID string, authoritative Comment) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.removeTempLocked(correlationID) {
		return false
	}
	f.seen[authoritative.ID] = struct{}{}
	f.insertLocked(authoritative)
	return true
}

// FailOptimistic removes the temp entry after a failed server insert so the
// viewer sees the failure instead of a phantom comment.
func (f *ThreadFeed) FailOptimistic(correlationID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.removeTempLocked(correlationID) {
		return false
	}
	f.total--
	return true
}

// ApplyEvent folds a realtime push into the feed. Events authored by the
// viewer are ignored (the optimistic entry already represents them) and
// events with no id are rejected outright; prior state is never corrupted.
func (f *ThreadFeed) ApplyEvent(c Comment) bool {
	if c.ID == "" || strings.HasPrefix(c.ID, tempPrefix) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.AuthorID == f.viewerID {
		return false
	}
	if !f.insertLocked(c) {
		return false
	}
	f.total++
	return true
}

// Comments returns a copy of the merged list ordered by created_at.
func (f *ThreadFeed) Comments() []Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Comment, len(f.comments))
	copy(out, f.comments)
	return out
}

// Total is the feed's running count of comments in the thread.
func (f *ThreadFeed) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// FirstUnread returns the target of the "jump to new" affordance: the first
// comment in list order newer than the viewer's last visit and not yet seen
// this session.
func (f *ThreadFeed) FirstUnread() (Comment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if !c.CreatedAt.After(f.lastViewedAt) {
			continue
		}
		if _, ok := f.seen[c.ID]; ok {
			continue
		}
		return c, true
	}
	return Comment{}, false
}

// UnreadCount counts comments newer than the last visit and not yet seen.
func (f *ThreadFeed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.comments {
		if !c.CreatedAt.After(f.lastViewedAt) {
			continue
		}
		if _, ok := f.seen[c.ID]; ok {
			continue
		}
		n++
	}
	return n
}

// MarkSeen records ids as read for this session only; nothing persists
// beyond the initial view-timestamp write.
func (f *ThreadFeed) MarkSeen(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.seen[id] = struct{}{}
	}
}

// insertLocked adds c in created_at order if its id is not present yet.
func (f *ThreadFeed) insertLocked(c Comment) bool {
	if c.ID == "" {
		return false
	}
	if _, ok := f.present[c.ID]; ok {
		return false
	}
	f.present[c.ID] = struct{}{}
	at := sort.Search(len(f.comments), func(i int) bool {
		return f.comments[i].CreatedAt.After(c.CreatedAt)
	})
	f.comments = append(f.comments, Comment{})
	copy(f.comments[at+1:], f.comments[at:])
	f.comments[at] = c
	return true
}

func (f *ThreadFeed) removeTempLocked(correlationID string) bool {
	id := tempPrefix + correlationID
	if _, ok := f.present[id]; !ok {
		return false
	}
	delete(f.present, id)
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			break
		}
	}
	return true
}
