package gfx

import "sync"

// JobQueue is a mutex-guarded FIFO of jobs. Push and Pop are O(1), never
// block, and never inspect job contents. Each queue carries its own lock so
// request traffic, response traffic, and provider replacement never
// serialize against each other.
type JobQueue struct {
	mu   sync.Mutex
	jobs []*Job
}

// Push appends job at the tail.
func (q *JobQueue) Push(job *Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
}

// Pop removes and returns the head, or nil if the queue is empty.
func (q *JobQueue) Pop() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job
}

// Len returns the current depth.
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
