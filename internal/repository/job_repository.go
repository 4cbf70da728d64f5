package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// Export job state lives in redis, not the relational store: jobs are
// ephemeral, polled frequently and safe to lose across a redis restart.
const jobTTL = 48 * time.Hour

type JobRepository struct {
	client *redis.Client
}

func NewJobRepository(addr, password string) (*JobRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &JobRepository{client: client}, nil
}

func jobKey(id string) string {
	return "export-job:" + id
}

func (r *JobRepository) Put(ctx context.Context, job *models.ExportJob) error {
	job.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, jobKey(job.ID), payload, jobTTL).Err()
}

func (r *JobRepository) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	payload, err := r.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var job models.ExportJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Close() error {
	return r.client.Close()
}
