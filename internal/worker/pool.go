package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/repository"
	"empenglish-backend/internal/services"
)

// Pool drains the report-delivery queue. Workers coordinate through a
// Redis lock per job so a job is processed once even when several
// instances share the queue.
type Pool struct {
	redis       *redis.Client
	notifier    *services.NotifierService
	email       *services.EmailService
	userRepo    *repository.UserRepo
	jobRepo     *repository.JobRepo
	sessionRepo *repository.PracticeSessionRepo
	reportRepo  *repository.PracticeReportRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	notifier *services.NotifierService,
	email *services.EmailService,
	userRepo *repository.UserRepo,
	jobRepo *repository.JobRepo,
	sessionRepo *repository.PracticeSessionRepo,
	reportRepo *repository.PracticeReportRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		notifier:    notifier,
		email:       email,
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		sessionRepo: sessionRepo,
		reportRepo:  reportRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{services.ReportDeliveryQueue}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		// Parse job
		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		var processErr error
		switch job.Type {
		case "report-delivery":
			processErr = p.processReportDelivery(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

// processReportDelivery emails the session report to its owner,
// honoring the report_emails notification preference. The job's
// reference ID is the report ID.
func (p *Pool) processReportDelivery(ctx context.Context, job *models.Job) error {
	report, err := p.reportRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get report %s: %w", job.ReferenceID, err)
	}
	if report == nil {
		return fmt.Errorf("report %s not found", job.ReferenceID)
	}

	session, err := p.sessionRepo.GetByID(ctx, report.SessionID)
	if err != nil || session == nil {
		return fmt.Errorf("failed to get session %s for report %s: %v", report.SessionID, report.ID, err)
	}

	enabled, err := p.userRepo.GetNotificationSetting(ctx, job.UserID, "report_emails", true)
	if err != nil {
		log.Printf("failed to load report_emails preference for user %s: %v", job.UserID, err)
		return nil
	}
	if !enabled {
		return nil
	}

	user, err := p.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", job.UserID, err)
	}

	if err := p.email.SendReportEmail(user.Email, user.FullName, report); err != nil {
		return fmt.Errorf("failed to send report email to %s: %w", user.Email, err)
	}

	return nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")

	p.notifier.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "report_delivered",
		Payload: map[string]string{
			"job_id":    job.ID.String(),
			"report_id": job.ReferenceID.String(),
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < job.MaxRetries {
		// Re-queue with backoff
		log.Printf("Job %s failed (attempt %d): %s, retrying", job.ID, job.RetryCount, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "pending")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), services.ReportDeliveryQueue, string(jobBytes))
		})
	} else {
		// Max retries reached
		log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)
	}
}
