package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/repository"
)

const ReportDeliveryQueue = "queue:report-delivery"

// NotifierService fans out session events: live updates over Redis
// pub/sub for connected websocket clients, and a queued job for
// report delivery by the worker pool.
type NotifierService struct {
	redis   *redis.Client
	jobRepo *repository.JobRepo
}

func NewNotifierService(redisClient *redis.Client, jobRepo *repository.JobRepo) *NotifierService {
	return &NotifierService{redis: redisClient, jobRepo: jobRepo}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *NotifierService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}

// ReportFinalized is called once per session, right after the report
// row is written. Delivery is asynchronous; a failed enqueue is logged
// and never fails the session.
func (s *NotifierService) ReportFinalized(ctx context.Context, session *models.PracticeSession, report *models.PracticeReport) {
	s.PublishUpdate(ctx, session.UserID, models.WSMessage{
		Type: "session_end",
		Payload: models.ReportReadyEvent{
			SessionID:    session.ID,
			ReportID:     report.ID,
			OverallScore: report.OverallScore,
		},
	})

	job := &models.Job{
		UserID:      session.UserID,
		Type:        "report-delivery",
		ReferenceID: report.ID,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		log.Printf("notifier: failed to create report-delivery job for report %s: %v", report.ID, err)
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := s.redis.LPush(ctx, ReportDeliveryQueue, string(jobBytes)).Err(); err != nil {
		log.Printf("notifier: failed to enqueue report-delivery job %s: %v", job.ID, err)
	}
}
