package services

import (
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/jobs"
)

type JobService struct {
	worker *jobs.Worker
}

func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{
		worker: worker,
	}
}

// GetStatus reports the background worker counters
func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}
