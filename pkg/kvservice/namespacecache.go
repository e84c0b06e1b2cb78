/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package kvservice

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
	"github.com/actiasdev/actias/pkg/metrics"
)

// NamespaceCache holds a `(project_id) -> {namespace: count}` hash in
// Redis, read directly by ListNamespaces (spec.md §4.4's "eventually
// consistent" listing) and kept approximately correct by incremental
// updates on SetPairs/DeletePairs plus a periodic compaction sweep that
// drops namespaces whose count has fallen to zero.
type NamespaceCache struct {
	rdb  *redis.Client
	cron *cron.Cron
	log  logr.Logger
}

func namespaceCacheKey(projectID string) string { return "actias:kv:namespaces:" + projectID }

// NewNamespaceCache constructs a cache and starts its compaction sweep,
// running every interval (spec.md's "grace interval" design note).
func NewNamespaceCache(rdb *redis.Client, interval time.Duration, log logr.Logger) *NamespaceCache {
	c := &NamespaceCache{rdb: rdb, cron: cron.New(), log: log}
	spec := "@every " + interval.String()
	if _, err := c.cron.AddFunc(spec, c.compactAll); err != nil {
		log.Error(err, "failed to schedule namespace compaction", "interval", interval)
	}
	c.cron.Start()
	return c
}

// Stop halts the compaction sweep.
func (c *NamespaceCache) Stop() { c.cron.Stop() }

// Bump adjusts the cached count of a project's namespace by delta,
// removing the field once it reaches zero or below.
func (c *NamespaceCache) Bump(ctx context.Context, projectID, namespace string, delta int64) error {
	key := namespaceCacheKey(projectID)
	count, err := c.rdb.HIncrBy(ctx, key, namespace, delta).Result()
	if err != nil {
		return apperr.Wrap(err, apperr.KindIO, "bump namespace count")
	}
	if count <= 0 {
		if err := c.rdb.HDel(ctx, key, namespace).Err(); err != nil {
			return apperr.Wrap(err, apperr.KindIO, "evict empty namespace")
		}
	}
	return nil
}

// Invalidate removes a namespace from the cache immediately — called by
// DeleteNamespace/DeleteProject so those operations are reflected without
// waiting on the next sweep (spec.md: "a DeleteNamespace/DeleteProject
// call invalidates it synchronously within the same request").
func (c *NamespaceCache) Invalidate(ctx context.Context, projectID, namespace string) error {
	if err := c.rdb.HDel(ctx, namespaceCacheKey(projectID), namespace).Err(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "invalidate namespace")
	}
	return nil
}

// InvalidateProject drops every cached namespace for a project.
func (c *NamespaceCache) InvalidateProject(ctx context.Context, projectID string) error {
	if err := c.rdb.Del(ctx, namespaceCacheKey(projectID)).Err(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "invalidate project namespaces")
	}
	return nil
}

// List returns the cached namespaces of a project.
func (c *NamespaceCache) List(ctx context.Context, projectID string) ([]*proto.NamespaceInfo, error) {
	raw, err := c.rdb.HGetAll(ctx, namespaceCacheKey(projectID)).Result()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "list namespaces")
	}
	out := make([]*proto.NamespaceInfo, 0, len(raw))
	for name, countStr := range raw {
		count, _ := strconv.ParseInt(countStr, 10, 64)
		if count <= 0 {
			continue
		}
		out = append(out, &proto.NamespaceInfo{ProjectID: projectID, Name: name, Count: count})
	}
	return out, nil
}

// Seed replaces a project's cached namespace hash wholesale with counts.
// Nothing in this repository calls it.
func (c *NamespaceCache) Seed(ctx context.Context, projectID string, counts map[string]int64) error {
	key := namespaceCacheKey(projectID)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	for namespace, count := range counts {
		if count > 0 {
			pipe.HSet(ctx, key, namespace, count)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "seed namespace cache")
	}
	return nil
}

// compactAll is the cron sweep target. It is intentionally a no-op over
// cached entries already at zero (Bump evicts those immediately); its
// purpose is to catch drift from crashed or partial writes by re-reading
// each field and evicting anything that settled at or below zero.
func (c *NamespaceCache) compactAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	iter := c.rdb.Scan(ctx, 0, "actias:kv:namespaces:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := c.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			c.log.Error(err, "compaction: read namespace hash failed", "key", key)
			continue
		}
		for namespace, countStr := range fields {
			count, _ := strconv.ParseInt(countStr, 10, 64)
			if count <= 0 {
				if err := c.rdb.HDel(ctx, key, namespace).Err(); err != nil {
					c.log.Error(err, "compaction: evict failed", "key", key, "namespace", namespace)
					continue
				}
				metrics.NamespaceCompactions.WithLabelValues(strings.TrimPrefix(key, "actias:kv:namespaces:")).Inc()
			}
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Error(err, "compaction: scan failed")
	}
}
