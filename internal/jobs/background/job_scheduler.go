package background

import (
	"context"
	"log"
	"sync"
	"time"

	"sipor/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the periodic snapshot refresh and data-quality jobs.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	refreshSvc     *jobs.SnapshotRefreshService
	dataQualitySvc *jobs.DataQualityService
	refreshEvery   time.Duration
	jobJobs        map[string]gocron.Job
	mu             sync.RWMutex
}

// NewJobScheduler creates a new job scheduler. refreshEvery should match the
// snapshot cache TTL so the cache is always warm.
func NewJobScheduler(refreshSvc *jobs.SnapshotRefreshService, dataQualitySvc *jobs.DataQualityService, refreshEvery time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	if refreshEvery <= 0 {
		refreshEvery = 5 * time.Minute
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		refreshSvc:     refreshSvc,
		dataQualitySvc: dataQualitySvc,
		refreshEvery:   refreshEvery,
		jobJobs:        make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	refreshJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.refreshEvery),
		gocron.NewTask(js.refreshSvc.ScheduledSnapshotRefresh, context.Background()),
		gocron.WithName("snapshot-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create snapshot refresh job: %v", err)
	} else {
		js.jobJobs["snapshot-refresh"] = refreshJob
	}

	qualityJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.dataQualitySvc.ScheduledDataQualityCheck, context.Background()),
		gocron.WithName("data-quality-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create data quality job: %v", err)
	} else {
		js.jobJobs["data-quality-check"] = qualityJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}
