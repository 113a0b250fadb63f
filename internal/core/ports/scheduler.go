package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()
	ScheduleRecurringTask(interval time.Duration, task func()) error
}
