package media

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/bethropolis/prose/internal/document"
	"github.com/bethropolis/prose/internal/logger"
)

// Completion is a finished upload waiting to be applied to the document.
type Completion struct {
	Upload *Upload
	// Anchor is the position captured when the upload started.
	Anchor Anchor
	File   File
	// Block is the media block to insert; meaningless when Err is set.
	Block document.Block
	Err   error
}

// Upload is the handle of one upload.
type Upload struct {
	File   File
	Anchor Anchor

	done   chan struct{}
	result Completion
}

// Done is closed once the upload finished.
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Wait blocks until the upload finished and returns its completion.
func (u *Upload) Wait() Completion {
	<-u.done
	return u.result
}

// WaitAll waits for every upload and combines their failures.
func WaitAll(uploads ...*Upload) error {
	var err error
	for _, u := range uploads {
		err = multierr.Append(err, u.Wait().Err)
	}
	return err
}

// Pipeline runs uploads concurrently and queues their completions. The
// document is never touched from an upload goroutine: the owner drains
// the queue from its own loop and applies each completion with Insert.
type Pipeline struct {
	uploader Uploader

	inFlight atomic.Int64
	wg       sync.WaitGroup

	mu    sync.Mutex
	queue []Completion
	ready chan struct{}
}

// NewPipeline creates a pipeline around uploader.
func NewPipeline(uploader Uploader) *Pipeline {
	return &Pipeline{
		uploader: uploader,
		ready:    make(chan struct{}, 1),
	}
}

// Start sniffs f and uploads it in the background. Files that are not
// media are refused before anything is uploaded.
func (p *Pipeline) Start(ctx context.Context, anchor Anchor, f File) (*Upload, error) {
	kind, mime, err := Detect(f.Data)
	if err != nil {
		logger.WarnTagf("media", "refusing %s: %v", f.Name, err)
		return nil, err
	}

	u := &Upload{File: f, Anchor: anchor, done: make(chan struct{})}
	p.inFlight.Add(1)
	p.wg.Add(1)
	logger.DebugTagf("media", "uploading %s (%s, %d bytes)", f.Name, mime, len(f.Data))

	go func() {
		defer p.wg.Done()
		c := Completion{Upload: u, Anchor: anchor, File: f}
		url, err := p.uploader.Upload(ctx, f)
		if err != nil {
			c.Err = fmt.Errorf("%w: %s: %w", ErrUploadFailed, f.Name, err)
			logger.ErrorTagf("media", "%v", c.Err)
		} else {
			c.Block = NewBlock(kind, f, url)
			logger.DebugTagf("media", "uploaded %s to %s", f.Name, url)
		}
		u.result = c
		p.push(c)
		p.inFlight.Add(-1)
		close(u.done)
	}()
	return u, nil
}

func (p *Pipeline) push(c Completion) {
	p.mu.Lock()
	p.queue = append(p.queue, c)
	p.mu.Unlock()
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value after completions were queued.
func (p *Pipeline) Ready() <-chan struct{} {
	return p.ready
}

// Drain returns and clears the queued completions in completion order.
func (p *Pipeline) Drain() []Completion {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.queue
	p.queue = nil
	return out
}

// InFlight is the number of uploads that have not finished yet.
func (p *Pipeline) InFlight() int {
	return int(p.inFlight.Load())
}

// Wait blocks until every started upload finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
