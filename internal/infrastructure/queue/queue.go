package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	interfaces "gymclass/internal/interfaces/infrastructure"
	"gymclass/pkg/logger"
)

// Queue is a channel-backed notification queue for single-process
// deployments. Jobs lost on shutdown are acceptable; notifications are
// best-effort by contract.
type Queue struct {
	notificationQueue chan interfaces.NotificationJob

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	gateway interfaces.NotificationGateway
}

func NewInMemoryQueue(bufferSize, workers int, gateway interfaces.NotificationGateway) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		notificationQueue: make(chan interfaces.NotificationJob, bufferSize),
		workers:           workers,
		ctx:               ctx,
		cancel:            cancel,
		gateway:           gateway,
	}
}

func (q *Queue) StartWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	logger.Info("Starting %d notification workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.notificationWorker(i)
	}

	q.started = true
}

func (q *Queue) StopWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return
	}

	logger.Info("Stopping notification workers...")
	q.cancel()
	q.wg.Wait()
	q.started = false
	logger.Info("Notification workers stopped")
}

func (q *Queue) Enqueue(ctx context.Context, job interfaces.NotificationJob) error {
	select {
	case q.notificationQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("notification queue is full")
	}
}

func (q *Queue) notificationWorker(workerID int) {
	defer q.wg.Done()

	logger.Info("Notification worker %d started", workerID)

	for {
		select {
		case <-q.ctx.Done():
			logger.Info("Notification worker %d stopped", workerID)
			return
		case job := <-q.notificationQueue:
			dispatch(workerID, q.gateway, &job)
		}
	}
}

// dispatch delivers a single job to the gateway. Failures are logged and
// dropped; there is no retry, the underlying state change already committed.
func dispatch(workerID int, gateway interfaces.NotificationGateway, job *interfaces.NotificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch job.Kind {
	case interfaces.NotifyBookingConfirmed:
		err = gateway.NotifyBookingConfirmed(ctx, job.MemberID, job.SessionID, job.BookingID)
	case interfaces.NotifyBookingCancelled:
		err = gateway.NotifyBookingCancelled(ctx, job.MemberID, job.SessionID, job.Reason)
	case interfaces.NotifyWaitlisted:
		err = gateway.NotifyWaitlisted(ctx, job.MemberID, job.SessionID)
	case interfaces.NotifyPromotion:
		err = gateway.NotifyPromotion(ctx, job.MemberID, job.SessionID, job.BookingID)
	default:
		logger.Error("Worker %d received unknown notification kind: %s", workerID, job.Kind)
		return
	}

	if err != nil {
		logger.Error("Worker %d failed to deliver %s notification for member %s: %v",
			workerID, job.Kind, job.MemberID, err)
		return
	}

	logger.Debug("Worker %d delivered %s notification for member %s, session %s",
		workerID, job.Kind, job.MemberID, job.SessionID)
}
