// internal/storage/leveldb/client.go
package leveldb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stratum-labs/stratum/internal/config"
	"github.com/stratum-labs/stratum/internal/models"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const resultKeyPrefix = "decomp:"

// cacheEntry wraps a cached value with its expiry
type cacheEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client caches full decomposition results between the POST that
// creates them and later GET/execute calls, with a TTL so abandoned
// plans age out. Expired entries are swept periodically; Get treats
// them as misses in the meantime.
type Client struct {
	db          *leveldb.DB
	ttl         time.Duration
	stopCleanup chan struct{}
}

func NewClient(cfg config.LevelDBConfig, ttl time.Duration) (*Client, error) {
	opts := &opt.Options{
		CompactionTableSize: 2 * 1024 * 1024, // 2MB
		WriteBuffer:         1 * 1024 * 1024, // 1MB
	}

	db, err := leveldb.OpenFile(cfg.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}

	client := &Client{
		db:          db,
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go client.startCleanupRoutine(time.Hour)

	return client, nil
}

func (c *Client) Close() error {
	close(c.stopCleanup)
	return c.db.Close()
}

// PutResult caches a decomposition result under its run id
func (c *Client) PutResult(result *models.DecompositionResult) error {
	value, err := result.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal decomposition result: %w", err)
	}

	entry := cacheEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return c.db.Put([]byte(resultKeyPrefix+result.ID), data, nil)
}

// GetResult returns the cached result for a run id, or nil on a miss
func (c *Client) GetResult(id string) (*models.DecompositionResult, error) {
	data, err := c.db.Get([]byte(resultKeyPrefix+id), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		return nil, nil
	}

	var result models.DecompositionResult
	if err := result.FromJSON(entry.Value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decomposition result: %w", err)
	}
	return &result, nil
}

// DeleteResult evicts a cached result
func (c *Client) DeleteResult(id string) error {
	return c.db.Delete([]byte(resultKeyPrefix+id), nil)
}

func (c *Client) startCleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Client) cleanup() {
	iter := c.db.NewIterator(util.BytesPrefix([]byte(resultKeyPrefix)), nil)
	defer iter.Release()

	var expired [][]byte
	now := time.Now()

	for iter.Next() {
		var entry cacheEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			continue
		}
		if now.After(entry.ExpiresAt) {
			key := append([]byte(nil), iter.Key()...)
			expired = append(expired, key)
		}
	}

	for _, key := range expired {
		c.db.Delete(key, nil)
	}
}
