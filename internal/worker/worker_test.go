package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupQueue(t *testing.T) (*redis.Client, *JobQueue) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, NewJobQueue(client)
}

func TestEnqueueAndQueueSize(t *testing.T) {
	_, queue := setupQueue(t)

	if err := queue.Enqueue("default", JobTypeDueDateReminder, map[string]interface{}{
		"task_id": "abc",
	}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	size, err := queue.GetQueueSize("default")
	if err != nil {
		t.Fatalf("GetQueueSize failed: %v", err)
	}
	if size != 1 {
		t.Errorf("expected queue size 1, got %d", size)
	}
}

func TestWorkerProcessesJob(t *testing.T) {
	client, queue := setupQueue(t)

	processed := make(chan *Job, 1)

	w := NewWorker(WorkerConfig{RedisClient: client, Queues: []string{"default"}})
	w.RegisterHandler(JobTypeDueDateReminder, func(ctx context.Context, job *Job) error {
		processed <- job
		return nil
	})
	w.Start(1)
	defer w.Stop()

	if err := queue.Enqueue("default", JobTypeDueDateReminder, map[string]interface{}{
		"task_id": "abc",
		"title":   "Ship release",
	}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case job := <-processed:
		if job.Type != JobTypeDueDateReminder {
			t.Errorf("unexpected job type %s", job.Type)
		}
		if job.Payload["task_id"] != "abc" {
			t.Errorf("unexpected payload: %v", job.Payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not process the job in time")
	}
}

func TestWorkerRequeuesUnripeJob(t *testing.T) {
	client, queue := setupQueue(t)

	processed := make(chan *Job, 1)

	w := NewWorker(WorkerConfig{RedisClient: client, Queues: []string{"default"}})
	w.RegisterHandler(JobTypeDueDateReminder, func(ctx context.Context, job *Job) error {
		processed <- job
		return nil
	})

	// Scheduled far in the future: a poll must put it back on the
	// queue instead of executing it.
	if err := queue.EnqueueAt("default", JobTypeDueDateReminder, map[string]interface{}{
		"task_id": "later",
	}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("EnqueueAt failed: %v", err)
	}

	if err := w.processNextJob(); err != nil {
		t.Fatalf("processNextJob failed: %v", err)
	}

	select {
	case <-processed:
		t.Fatal("job executed before its process time")
	default:
	}

	size, err := queue.GetQueueSize("default")
	if err != nil {
		t.Fatalf("GetQueueSize failed: %v", err)
	}
	if size != 1 {
		t.Errorf("expected unripe job back on the queue, size %d", size)
	}
}
