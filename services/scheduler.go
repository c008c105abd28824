package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler owns the two background jobs: due party-notice dispatch every
// minute, and the weekly boss-queue rotation after the Monday reset.
type Scheduler struct {
	sched         gocron.Scheduler
	noticeService NoticeService
	queueService  QueueService
	logger        *slog.Logger
}

func NewScheduler(noticeService NoticeService, queueService QueueService, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		sched:         sched,
		noticeService: noticeService,
		queueService:  queueService,
		logger:        logger,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.noticeService.DispatchDue(ctx); err != nil {
				s.logger.Error("party notice dispatch failed", slog.Any("error", err))
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule notice dispatch: %w", err)
	}

	// Monday 05:00, after the weekly boss cycle closes.
	_, err = s.sched.NewJob(
		gocron.CronJob("0 5 * * 1", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := s.queueService.RotateAll(ctx); err != nil {
				s.logger.Error("boss queue rotation failed", slog.Any("error", err))
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule queue rotation: %w", err)
	}

	s.sched.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
