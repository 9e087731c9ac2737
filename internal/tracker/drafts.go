package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	oneDay            = 24 * 60 * 60
	draftCacheExpire  = oneDay * 7
	defaultDraftCache = 4 * 1024 * 1024
)

// Draft is the unsent input for one set slot.
type Draft struct {
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	Difficulty int     `json:"difficulty"`
}

type DraftStore interface {
	Get(key string) (Draft, bool)
	Set(key string, draft Draft) error
	Clear(key string)
}

// DraftKey identifies a set slot: session:exercise:set.
func DraftKey(sessionID, exerciseID uuid.UUID, setNumber int) string {
	return fmt.Sprintf("%s:%s:%d", sessionID, exerciseID, setNumber)
}

// MemoryDrafts keeps drafts in a process local freecache. Entries expire
// after a week.
type MemoryDrafts struct {
	cache *freecache.Cache
}

// NewMemoryDrafts creates a draft store of about sizeBytes. Non positive
// sizes fall back to 4MB.
func NewMemoryDrafts(sizeBytes int) *MemoryDrafts {
	if sizeBytes <= 0 {
		sizeBytes = defaultDraftCache
	}
	return &MemoryDrafts{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (d *MemoryDrafts) Get(key string) (Draft, bool) {
	draftBytes, err := d.cache.Get([]byte(key))
	if err != nil {
		return Draft{}, false
	}

	var draft Draft
	if err := json.Unmarshal(draftBytes, &draft); err != nil {
		log.Errorf("unmarshal draft [%s]: %s", key, err)
		d.cache.Del([]byte(key))
		return Draft{}, false
	}
	return draft, true
}

func (d *MemoryDrafts) Set(key string, draft Draft) error {
	draftBytes, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := d.cache.Set([]byte(key), draftBytes, draftCacheExpire); err != nil {
		return fmt.Errorf("set draft [%s]: %w", key, err)
	}
	return nil
}

func (d *MemoryDrafts) Clear(key string) {
	d.cache.Del([]byte(key))
}
