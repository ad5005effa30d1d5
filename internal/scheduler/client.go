package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"website_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	urgentMaxRetry  = 5
	defaultMaxRetry = 3
)

type Client struct {
	client *asynq.Client
	queue  string
}

// HandoffScheduler enqueues department handoffs.
type HandoffScheduler interface {
	EnqueueHandoff(ctx context.Context, payload HandoffPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueHandoff schedules payload for immediate processing. Priority 1 and 2
// handoffs get more retries. A handoff ID that is already queued is not an error.
func (c *Client) EnqueueHandoff(ctx context.Context, payload HandoffPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewIntentHandoffTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(MaxRetryForPriority(payload.Priority)),
		asynq.TaskID(payload.HandoffID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// MaxRetryForPriority returns the retry budget for a routing priority.
func MaxRetryForPriority(priority int) int {
	if priority <= 2 {
		return urgentMaxRetry
	}
	return defaultMaxRetry
}

// NewRedisClient opens a plain go-redis client on the scheduler's Redis, for
// short-lived keys and health checks next to the queue.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	opt, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisOptions(cfg config.SchedulerConfig) (*redis.Options, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if cfg.GetRedisTLSInsecure() {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redisOptions(cfg)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
