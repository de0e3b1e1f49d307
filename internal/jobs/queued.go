package jobs

import (
	"context"

	"github.com/emrgen/pagepurge/internal/queue"
	"github.com/sirupsen/logrus"
)

var _ Scheduler = (*QueueScheduler)(nil)

// QueueScheduler publishes tasks to a queue drained by a worker process.
type QueueScheduler struct {
	queue queue.TaskQueue
}

func NewQueueScheduler(q queue.TaskQueue) *QueueScheduler {
	return &QueueScheduler{queue: q}
}

func (s *QueueScheduler) Schedule(ctx context.Context, task *Task) error {
	payload, err := task.Encode()
	if err != nil {
		return err
	}

	if err := s.queue.Publish(ctx, payload); err != nil {
		return err
	}

	logrus.Debugf("published task %s", task)
	return nil
}

// DrainJob moves queued tasks to the registry on every tick.
type DrainJob struct {
	queue    queue.TaskQueue
	registry *Registry
	schedule string
	batch    int
}

func NewDrainJob(q queue.TaskQueue, registry *Registry, schedule string, batch int) *DrainJob {
	if batch <= 0 {
		batch = 100
	}

	return &DrainJob{queue: q, registry: registry, schedule: schedule, batch: batch}
}

func (d *DrainJob) Name() string {
	return "drain"
}

func (d *DrainJob) Schedule() string {
	return d.schedule
}

func (d *DrainJob) Run() {
	if _, err := d.Drain(context.Background()); err != nil {
		logrus.Errorf("drain task queue: %v", err)
	}
}

// Drain dispatches one batch of queued tasks and returns how many were taken.
// Undecodable payloads are logged and dropped.
func (d *DrainJob) Drain(ctx context.Context) (int, error) {
	payloads, err := d.queue.Poll(ctx, d.batch)
	if err != nil {
		return 0, err
	}

	for _, payload := range payloads {
		task, err := DecodeTask(payload)
		if err != nil {
			logrus.Warnf("dropping queued task: %v", err)
			continue
		}
		_ = d.registry.Dispatch(ctx, task)
	}

	return len(payloads), nil
}
