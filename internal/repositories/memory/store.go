// Package memory is an in-process implementation of the repository interfaces.
// It backs STORE_BACKEND=memory for local runs and serves as the test double for
// services and handlers.
package memory

import (
	"bytes"
	"sync"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock, so each repository call is atomic.
type Store struct {
	mu sync.RWMutex

	users     map[primitive.ObjectID]*models.User
	videos    map[primitive.ObjectID]*models.Video
	comments  map[primitive.ObjectID]*models.Comment
	tweets    map[primitive.ObjectID]*models.Tweet
	playlists map[primitive.ObjectID]*models.Playlist

	relations      map[models.RelationKey]*models.Relation
	nextRelationID uint

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[primitive.ObjectID]*models.User),
		videos:    make(map[primitive.ObjectID]*models.Video),
		comments:  make(map[primitive.ObjectID]*models.Comment),
		tweets:    make(map[primitive.ObjectID]*models.Tweet),
		playlists: make(map[primitive.ObjectID]*models.Playlist),
		relations: make(map[models.RelationKey]*models.Relation),
		now:       tick(),
	}
}

// tick returns a clock that never repeats a value, so created_at orderings are strict.
func tick() func() time.Time {
	var mu sync.Mutex
	var last time.Time
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := time.Now().UTC()
		if !t.After(last) {
			t = last.Add(time.Microsecond)
		}
		last = t
		return t
	}
}

func (s *Store) Users() *UserRepository         { return &UserRepository{s} }
func (s *Store) Videos() *VideoRepository       { return &VideoRepository{s} }
func (s *Store) Comments() *CommentRepository   { return &CommentRepository{s} }
func (s *Store) Tweets() *TweetRepository       { return &TweetRepository{s} }
func (s *Store) Playlists() *PlaylistRepository { return &PlaylistRepository{s} }
func (s *Store) Relations() *RelationRepository { return &RelationRepository{s} }

var (
	_ repositories.UserRepository     = (*UserRepository)(nil)
	_ repositories.VideoRepository    = (*VideoRepository)(nil)
	_ repositories.CommentRepository  = (*CommentRepository)(nil)
	_ repositories.TweetRepository    = (*TweetRepository)(nil)
	_ repositories.PlaylistRepository = (*PlaylistRepository)(nil)
	_ repositories.RelationRepository = (*RelationRepository)(nil)
)

// summaryLocked returns the owner summary for id; zero if the user is gone.
func (s *Store) summaryLocked(id primitive.ObjectID) models.OwnerSummary {
	if u, ok := s.users[id]; ok {
		return u.ToSummary()
	}
	return models.OwnerSummary{}
}

func paginate[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + int64(page.PageSize)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func compareIDs(a, b primitive.ObjectID) int {
	return bytes.Compare(a[:], b[:])
}

// newestFirst orders by created_at then id, both descending.
func newestFirst(aTime, bTime time.Time, aID, bID primitive.ObjectID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return compareIDs(aID, bID) > 0
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}
