package delivery

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is one server-side conversion run.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Jobs is an in-memory registry of conversion runs.
type Jobs struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobs() *Jobs {
	return &Jobs{jobs: make(map[string]*Job)}
}

// Create registers a new running job. The returned value is a copy:
// the stored job keeps mutating via Finish while callers hold theirs.
func (j *Jobs) Create() Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	job := &Job{ID: uuid.NewString(), Status: JobRunning, CreatedAt: time.Now()}
	j.jobs[job.ID] = job
	return *job
}

func (j *Jobs) Get(id string) (Job, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	job, ok := j.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (j *Jobs) Finish(id string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return
	}
	if err != nil {
		job.Status = JobFailed
		job.Error = err.Error()
		return
	}
	job.Status = JobDone
}
