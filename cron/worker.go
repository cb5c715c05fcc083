package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"slotify/config"
	"slotify/services/reservation"
)

const TypeBookingReap = "booking:reap"

// ReapPayload identifies the booking a deferred reap task should check.
type ReapPayload struct {
	BookingID string `json:"bookingId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewReapClient returns the asynq client used to enqueue reap tasks.
func NewReapClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// NewReapInspector returns the asynq inspector used to drop reap tasks
// whose booking already reached a terminal state.
func NewReapInspector() *asynq.Inspector {
	return asynq.NewInspector(redisOpts())
}

// ReapScheduler implements reservation.ReapScheduler on top of asynq: every
// pending booking gets a reap task processed once its TTL elapses, keyed by
// the booking id so it can be deleted once the booking confirms or cancels.
type ReapScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

func (s *ReapScheduler) ScheduleReap(bookingID string, delay time.Duration) error {
	payload, err := json.Marshal(ReapPayload{BookingID: bookingID})
	if err != nil {
		return fmt.Errorf("failed to encode reap payload: %w", err)
	}
	task := asynq.NewTask(TypeBookingReap, payload)
	if _, err := s.Client.Enqueue(task, asynq.ProcessIn(delay), asynq.TaskID(bookingID)); err != nil {
		return fmt.Errorf("failed to enqueue reap task: %w", err)
	}
	return nil
}

// CancelReap deletes the scheduled reap task for a booking. An already-gone
// task is not an error; the reap handler is idempotent either way.
func (s *ReapScheduler) CancelReap(bookingID string) error {
	if s.Inspector == nil {
		return nil
	}
	err := s.Inspector.DeleteTask("default", bookingID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return fmt.Errorf("failed to delete reap task: %w", err)
	}
	return nil
}

// InitReapWorker runs the async worker in background. Stale pending bookings
// are treated as implicitly cancelled so they never block capacity accounting.
func InitReapWorker(coordinator reservation.Coordinator) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingReap, handleReapTask(coordinator))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReapWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReapWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReapWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReapTask(coordinator reservation.Coordinator) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReapPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReapHandler] Invalid payload: %v", err)
			return err
		}
		return coordinator.ExpirePending(ctx, p.BookingID)
	}
}
