// Package cpu provides a tracer that shades row blocks on a dedicated
// goroutine.
package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/tracer"
)

var (
	ErrAlreadyInitialized = errors.New("cpu tracer: already initialized")
	ErrNoShader           = errors.New("cpu tracer: no shader attached")
	ErrInvalidBlock       = errors.New("cpu tracer: invalid block request")
)

type cpuTracer struct {
	sync.Mutex
	wg sync.WaitGroup

	logger log.Logger

	// The tracer's id.
	id string

	started bool
	shader  tracer.RowShader
	stats   tracer.Stats

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}
}

// Create a new cpu tracer.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		closeChan:    make(chan struct{}, 0),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get tracer flags.
func (tr *cpuTracer) Flags() tracer.Flag {
	return tracer.Local | tracer.SharedMemory
}

// Every cpu tracer is a single worker.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Start processing incoming block requests.
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.started {
		return ErrAlreadyInitialized
	}
	tr.started = true

	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				// Render block and reply with our completion status
				err = tr.process(blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				return
			}
		}
	}()

	// Wait for worker goroutine to start
	<-readyChan
	tr.logger.Debugf("worker started")
	return nil
}

// Shutdown the tracer worker. Close is idempotent.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}
	if !tr.started {
		tr.closeChan = nil
		return
	}

	// Signal worker to exit and wait till it exits
	close(tr.closeChan)
	tr.wg.Wait()
	tr.closeChan = nil
}

// Enqueue block request. The call blocks while a previous request is still
// queued and returns immediately if the tracer is closed.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	closeChan := tr.closeChan
	tr.Unlock()
	if closeChan == nil {
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	case <-closeChan:
	}
}

// Update tracer state.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	switch updateType {
	case tracer.UpdateShader:
		shader, ok := data.(tracer.RowShader)
		if !ok {
			tr.logger.Warningf("ignoring shader update with payload of type %T", data)
			return
		}
		tr.shader = shader
	default:
		tr.logger.Warningf("ignoring unsupported update type %d", updateType)
	}
}

// Get last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	tr.Lock()
	defer tr.Unlock()

	stats := tr.stats
	return &stats
}

// Process block request.
func (tr *cpuTracer) process(blockReq tracer.BlockRequest) error {
	tr.Lock()
	shader := tr.shader
	tr.Unlock()

	if shader == nil {
		return ErrNoShader
	}
	if blockReq.Context == nil || int(blockReq.BlockY+blockReq.BlockH) > blockReq.Context.Height {
		return ErrInvalidBlock
	}

	start := time.Now()
	shader.ShadeRows(blockReq.Context, int(blockReq.BlockY), int(blockReq.BlockY+blockReq.BlockH))
	renderTime := time.Since(start)

	tr.Lock()
	tr.stats.BlockH = blockReq.BlockH
	tr.stats.RenderTime = renderTime
	tr.Unlock()
	return nil
}
