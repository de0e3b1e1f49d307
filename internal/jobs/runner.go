package jobs

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// Job is started on a one second tick and restarted when it returns.
type Job interface {
	Run()
}

// CronJob runs on its own cron schedule.
type CronJob interface {
	Schedule() string
	Job
}

// Named jobs are logged and tracked under their name.
type Named interface {
	Name() string
}

const restartSchedule = "@every 1s"

type entry struct {
	name     string
	schedule string
	job      Job
}

// TaskExecutor runs jobs on a cron. A tick is skipped while the previous run
// of the same job is still in progress.
type TaskExecutor struct {
	cron    *cron.Cron
	entries []entry
	running mapset.Set[string]
}

func NewTaskExecutor(jobs []Job, cronJobs []CronJob) *TaskExecutor {
	t := &TaskExecutor{
		cron:    cron.New(),
		running: mapset.NewSet[string](),
	}

	for _, job := range cronJobs {
		t.entries = append(t.entries, entry{name: jobName(job, len(t.entries)), schedule: job.Schedule(), job: job})
	}
	for _, job := range jobs {
		t.entries = append(t.entries, entry{name: jobName(job, len(t.entries)), schedule: restartSchedule, job: job})
	}

	return t
}

func jobName(job Job, index int) string {
	if named, ok := job.(Named); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T#%d", job, index)
}

// Run registers every job with the cron and starts it. Nothing is started
// when a schedule does not parse.
func (t *TaskExecutor) Run() error {
	for _, e := range t.entries {
		if err := t.cron.AddFunc(e.schedule, t.guard(e)); err != nil {
			logrus.Errorf("failed to add job %s to cron: %v", e.name, err)
			return fmt.Errorf("job %s: %w", e.name, err)
		}
	}

	t.cron.Start()
	return nil
}

func (t *TaskExecutor) guard(e entry) func() {
	return func() {
		// the set is thread safe, Add reports whether the name was absent
		if !t.running.Add(e.name) {
			logrus.Debugf("job %s is still running, skipping tick", e.name)
			return
		}
		defer t.running.Remove(e.name)

		e.job.Run()
	}
}

// Running lists the jobs currently in progress.
func (t *TaskExecutor) Running() []string {
	return t.running.ToSlice()
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping %d jobs", len(t.entries))
	t.cron.Stop()
}
