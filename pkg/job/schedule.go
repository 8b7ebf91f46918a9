package job

import (
	"fmt"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule accepts five-field cron expressions and descriptors like
// "@hourly" or "@every 30s".
func ParseSchedule(expr string) (river.PeriodicSchedule, error) {
	s, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, expr, err)
	}
	return s, nil
}

func periodicJobs(cfg *config) ([]*river.PeriodicJob, error) {
	if !cfg.beat {
		return nil, nil
	}

	jobs := make([]*river.PeriodicJob, 0, len(cfg.schedules))
	for _, sc := range cfg.schedules {
		s, err := ParseSchedule(sc.expr)
		if err != nil {
			return nil, err
		}

		name, queue := sc.name, cfg.defaultQueue
		jobs = append(jobs, river.NewPeriodicJob(s,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{TaskID: newTaskID(), TaskName: name}, &river.InsertOpts{Queue: queue}
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}
	return jobs, nil
}
