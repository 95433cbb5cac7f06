package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"math-mentor-be/internal/dto"
)

// StoredResult keeps a finished pipeline run around long enough for the
// user to read it and, on success, accept it. Results are transient; the
// durable artifacts live in the vector store.
type StoredResult struct {
	Response *dto.SolveResponse
	UserId   uuid.UUID
	Accepted bool
}

type ResultRepository struct {
	cache *cache.Cache
}

func NewResultRepository(ttl time.Duration) *ResultRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &ResultRepository{
		cache: c,
	}
}

func (r *ResultRepository) Save(result *StoredResult) {
	r.cache.Set(result.Response.ResultId.String(), result, cache.DefaultExpiration)
}

func (r *ResultRepository) Get(resultId uuid.UUID) (*StoredResult, bool) {
	if x, found := r.cache.Get(resultId.String()); found {
		return x.(*StoredResult), true
	}
	return nil, false
}

// MarkAccepted flips the accepted flag exactly once. The second return
// reports whether this call performed the transition.
func (r *ResultRepository) MarkAccepted(resultId uuid.UUID) (*StoredResult, bool) {
	result, found := r.Get(resultId)
	if !found {
		return nil, false
	}
	if result.Accepted {
		return result, false
	}
	result.Accepted = true
	r.cache.Set(resultId.String(), result, cache.DefaultExpiration)
	return result, true
}
