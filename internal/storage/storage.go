package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

// ResultSet is a loaded result file
type ResultSet struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	LoadedAt time.Time      `json:"loaded_at"`
	Results  models.Results `json:"results"`
}

type ResultStore struct {
	sets map[string]*ResultSet
	mu   sync.RWMutex
}

func New() *ResultStore {
	return &ResultStore{
		sets: make(map[string]*ResultSet),
	}
}

// Add stores results under a fresh ID
func (s *ResultStore) Add(source string, res models.Results) *ResultSet {
	set := &ResultSet{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		Results:  res,
	}
	s.Set(set.ID, set)
	return set
}

func (s *ResultStore) Get(id string) (*ResultSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, exists := s.sets[id]
	return set, exists
}

func (s *ResultStore) Set(id string, set *ResultSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[id] = set
}

// GetAll returns every set ordered by load time
func (s *ResultStore) GetAll() []*ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ResultSet, 0, len(s.sets))
	for _, v := range s.sets {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LoadedAt.Equal(result[j].LoadedAt) {
			return result[i].Source < result[j].Source
		}
		return result[i].LoadedAt.Before(result[j].LoadedAt)
	})
	return result
}

func (s *ResultStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
}
