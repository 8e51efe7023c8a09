package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

const snapshotKeyPrefix = "board:"

type SnapshotRepository interface {
	Save(ctx context.Context, key string, snapshot *entity.Snapshot) error
	Get(ctx context.Context, key string) (*entity.Snapshot, error)
	Delete(ctx context.Context, key string) error
}

type dbSnapshot struct {
	client *redis.Client
}

func NewSnapshotRepository(client *redis.Client) SnapshotRepository {
	return &dbSnapshot{
		client: client,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, key string, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Set(ctx, snapshotKeyPrefix+key, snapshotJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) Get(ctx context.Context, key string) (*entity.Snapshot, error) {
	response, err := that.client.Get(ctx, snapshotKeyPrefix+key).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	if snapshot.State == nil {
		return nil, fmt.Errorf("%w: snapshot without state", apperror.ErrMalformedState)
	}

	return &snapshot, nil
}

func (that *dbSnapshot) Delete(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, snapshotKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}
