package timescheduler

import (
	"fmt"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

// ScheduleRecurringTask runs task every interval, the first time after one interval has
// elapsed. Runs never overlap.
func (s *service) ScheduleRecurringTask(interval time.Duration, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().SingletonMode().Do(task)
	return err
}
