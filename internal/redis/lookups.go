// Package redis provides a Redis-backed referential lookup collaborator.
// Media and entry id sets are kept per project; record validation asks
// whether every referenced id is a member. This suits deployments where
// the id index is maintained by another service and the validator should
// not touch the primary store.
package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/typeloom/typeloom/pkg/types"
)

var _ types.Lookups = (*Lookups)(nil)

// Lookups answers existence checks against per-project Redis sets.
type Lookups struct {
	client *redis.Client
}

// NewLookups creates a Lookups backed by the given client.
func NewLookups(client *redis.Client) *Lookups {
	return &Lookups{client: client}
}

func mediaKey(projectID string) string {
	return fmt.Sprintf("project:%s:media", projectID)
}

func entriesKey(projectID string) string {
	return fmt.Sprintf("project:%s:entries", projectID)
}

// MediaExistInProject reports whether every media id is a member of the
// project's media set.
func (l *Lookups) MediaExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	return l.allMembers(ctx, mediaKey(projectID), ids)
}

// EntriesExistInProject reports whether every entry id is a member of the
// project's entries set.
func (l *Lookups) EntriesExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	return l.allMembers(ctx, entriesKey(projectID), ids)
}

// allMembers pipelines one SISMEMBER per id and requires every reply to
// be true.
func (l *Lookups) allMembers(ctx context.Context, key string, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	pipe := l.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.SIsMember(ctx, key, id)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, fmt.Errorf("checking membership in %s: %w", key, err)
	}
	for _, cmd := range cmds {
		member, err := cmd.Result()
		if err != nil {
			return false, fmt.Errorf("checking membership in %s: %w", key, err)
		}
		if !member {
			return false, nil
		}
	}
	return true, nil
}

// IndexMedia adds media ids to the project's media set.
func (l *Lookups) IndexMedia(ctx context.Context, projectID string, ids ...string) error {
	return l.add(ctx, mediaKey(projectID), ids)
}

// IndexEntries adds entry ids to the project's entries set.
func (l *Lookups) IndexEntries(ctx context.Context, projectID string, ids ...string) error {
	return l.add(ctx, entriesKey(projectID), ids)
}

// RemoveMedia removes media ids from the project's media set.
func (l *Lookups) RemoveMedia(ctx context.Context, projectID string, ids ...string) error {
	return l.remove(ctx, mediaKey(projectID), ids)
}

// RemoveEntries removes entry ids from the project's entries set.
func (l *Lookups) RemoveEntries(ctx context.Context, projectID string, ids ...string) error {
	return l.remove(ctx, entriesKey(projectID), ids)
}

func (l *Lookups) add(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := l.client.SAdd(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("indexing ids in %s: %w", key, err)
	}
	return nil
}

func (l *Lookups) remove(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := l.client.SRem(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("removing ids from %s: %w", key, err)
	}
	return nil
}
