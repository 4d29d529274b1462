// Package mockstore keeps small record collections as whole JSON documents in
// a key-value store. It stands in for the marketplace backend when none is
// configured and holds the courses coaches share with admins.
package mockstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/saeid-a/CoachDashboard/internal/repository"
	"go.uber.org/zap"
)

const (
	CoachesKey = "luminary_coaches"
	CoursesKey = "sharedCourses"
)

var ErrNotFound = errors.New("record not found")

type collection[T any] struct {
	kv     repository.KVStore
	key    string
	logger *zap.Logger
}

// load never fails: a missing key is an empty collection, and so is a
// corrupt one, which is only logged.
func (c collection[T]) load(ctx context.Context) []T {
	raw, err := c.kv.Load(ctx, c.key)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			c.logger.Error("Failed to load collection", zap.String("key", c.key), zap.Error(err))
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("Discarding malformed collection", zap.String("key", c.key), zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.kv.Save(ctx, c.key, string(encoded))
}
