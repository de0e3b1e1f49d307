package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/emrgen/pagepurge/internal/config"
	"github.com/emrgen/pagepurge/internal/job"
	"github.com/emrgen/pagepurge/internal/jobs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func init() {
	rootCmd.AddCommand(workerCmd())
}

func workerCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "worker",
		Short: "run queued category refreshes and the orphan content sweeper",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			app, err := loadApp(ctx)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer app.Close()

			var cronJobs []jobs.CronJob
			if app.Queue != nil {
				cronJobs = append(cronJobs, jobs.NewDrainJob(app.Queue, app.Registry, app.Config.Jobs.Poll, app.Config.Jobs.Batch))
			} else {
				logrus.Warn("jobs backend is local, category refreshes run inside the deleting process")
			}

			var background []jobs.Job
			var sweeper *job.OrphanSweeper
			if interval := config.Duration(app.Config.Jobs.SweepInterval); interval > 0 {
				sweeper = job.NewOrphanSweeper(app.Store, app.Blobs, interval, app.Config.Jobs.Batch)
				background = append(background, sweeper)
			}

			if len(cronJobs) == 0 && len(background) == 0 {
				logrus.Info("nothing to run")
				return
			}

			executor := jobs.NewTaskExecutor(background, cronJobs)
			if err := executor.Run(); err != nil {
				logrus.Error(err)
				return
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
			<-sigs

			if sweeper != nil {
				sweeper.Stop()
			}
			executor.Stop()
		},
	}

	return command
}
