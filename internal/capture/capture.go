package capture

import (
	"context"
	"sync"

	"github.com/entl/membox/internal/queue"
)

// SubmitOptions carries the metadata attached to one command submission.
type SubmitOptions struct {
	Workdir string
	Status  Status
}

// Submitter is the narrow interface the capture path needs from the
// membox client: submit one command, get back its stored id.
type Submitter interface {
	Submit(ctx context.Context, command, description string, opts SubmitOptions) (string, error)
}

// Capturer forwards capture requests to a Submitter through a serial
// operation queue, so requests from distinct executions are applied in
// the order they arrived. A nil client means capture is disabled; the
// capturer then accepts requests and drops them without error.
type Capturer struct {
	queue  *queue.Queue
	client Submitter
}

// NewCapturer creates a capturer draining into client. client may be nil.
func NewCapturer(q *queue.Queue, client Submitter) *Capturer {
	return &Capturer{
		queue:  q,
		client: client,
	}
}

// Capture enqueues one operation that submits every command in req.
// It returns immediately. Within the operation, submissions fan out
// concurrently and the operation settles once all of them have, whether
// they succeeded or not. Individual submission failures are absorbed:
// not retried, not surfaced, and never allowed to block sibling
// submissions or later requests.
func (c *Capturer) Capture(req *Request) {
	if req == nil {
		return
	}
	c.queue.Enqueue(func() error {
		if c.client == nil {
			return nil
		}
		c.submitAll(req)
		return nil
	})
}

func (c *Capturer) submitAll(req *Request) {
	opts := SubmitOptions{
		Workdir: req.Workdir,
		Status:  req.Status,
	}

	var wg sync.WaitGroup
	for _, cmd := range req.Commands {
		wg.Add(1)
		go func(cmd string) {
			defer wg.Done()
			_, _ = c.client.Submit(context.Background(), cmd, "", opts)
		}(cmd)
	}
	wg.Wait()
}

// Wait blocks until every capture enqueued before the call has settled.
func (c *Capturer) Wait() {
	c.queue.Wait()
}
