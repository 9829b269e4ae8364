package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"time"

	"github.com/edusync/task-automation-service/internal/cache"
	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
)

// discoveryCacheTTL is short on purpose: discovery feeds a submission run
// that usually starts right after, and task lists go stale quickly.
const discoveryCacheTTL = 30 * time.Second

// Room ids sometimes appear only in nested corners of the room listing; the
// raw scan picks up every numeric "id" field regardless of nesting.
var numericIDPattern = regexp.MustCompile(`"id"\s*:\s*(\d+)`)

// DiscoveryService resolves publication targets from the room listing and
// fans out todo queries across them.
type DiscoveryService struct {
	client  upstream.Client
	cache   cache.CacheService
	metrics *MetricsCollector
	logger  utils.Logger
}

func NewDiscoveryService(client upstream.Client, cacheService cache.CacheService, metrics *MetricsCollector, logger utils.Logger) *DiscoveryService {
	return &DiscoveryService{client: client, cache: cacheService, metrics: metrics, logger: logger}
}

// ResolveTargets extracts the de-duplicated set of publication targets from a
// room listing: each room's stringified id, its name, the name:nick
// composite when a nickname is given, and every numeric id found by the raw
// scan. The result is sorted so repeated calls are identical. An empty
// listing yields an empty set, which callers must treat as "no tasks".
func (d *DiscoveryService) ResolveTargets(rooms *models.RoomListResponse, nick string) []string {
	if rooms == nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, room := range rooms.Rooms {
		if !room.ID.IsZero() {
			seen[room.ID.String()] = struct{}{}
		}
		if room.Name != "" {
			seen[room.Name] = struct{}{}
			if nick != "" {
				seen[fmt.Sprintf("%s:%s", room.Name, nick)] = struct{}{}
			}
		}
	}

	for _, match := range numericIDPattern.FindAllSubmatch(rooms.Raw, -1) {
		seen[string(match[1])] = struct{}{}
	}

	targets := make([]string, 0, len(seen))
	for t := range seen {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// DiscoverTasks lists the student's pending (or expired) tasks across every
// resolved target, de-duplicated by task id. Individual target queries may
// fail without failing discovery; their tasks are simply absent.
func (d *DiscoveryService) DiscoverTasks(ctx context.Context, token, filter, nick string) ([]json.RawMessage, error) {
	cacheKey := discoveryCacheKey(token, filter, nick)
	if d.cache != nil {
		var cached []json.RawMessage
		if err := d.cache.Get(ctx, cacheKey, &cached); err == nil {
			d.logger.Debug("task discovery served from cache", "tasks", len(cached))
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			d.logger.Warn("task discovery cache read failed", "error", err)
		}
	}

	rooms, err := d.client.Rooms(ctx, token)
	if err != nil {
		return nil, err
	}

	targets := d.ResolveTargets(rooms, nick)
	if len(targets) == 0 {
		d.logger.Info("no publication targets found")
		return nil, nil
	}

	taskFilter := upstream.TaskFilter{ExpiredOnly: filter == "expired"}

	var found []json.RawMessage
	seen := make(map[string]struct{})
	for _, target := range targets {
		tasks, err := d.client.TodoTasks(ctx, token, target, taskFilter)
		if err != nil {
			d.logger.Warn("task query failed for target, skipping",
				"target", target,
				"error", err)
			continue
		}

		for _, raw := range tasks {
			var ref models.TaskRef
			if err := json.Unmarshal(raw, &ref); err != nil || ref.ID.IsZero() {
				continue
			}
			if _, dup := seen[ref.ID.String()]; dup {
				continue
			}
			seen[ref.ID.String()] = struct{}{}
			found = append(found, raw)
		}
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, cacheKey, found, discoveryCacheTTL); err != nil {
			d.logger.Warn("task discovery cache write failed", "error", err)
		}
	}

	if d.metrics != nil {
		d.metrics.RecordDiscovery()
	}

	d.logger.Info("task discovery finished",
		"targets", len(targets),
		"tasks", len(found),
		"filter", filter)

	return found, nil
}

// discoveryCacheKey hashes the token so credentials never land in Redis keys.
func discoveryCacheKey(token, filter, nick string) string {
	h := fnv.New64a()
	h.Write([]byte(token))
	return fmt.Sprintf("discovery:%x:%s:%s", h.Sum64(), filter, nick)
}
