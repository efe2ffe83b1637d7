// Package export runs the full boolean pipeline off the UI thread and encodes
// the result for the file-writing side. A single persistent worker goroutine
// owns its evaluator (and therefore its export-quality geometry cache, which
// survives between exports); requests are served strictly in submission order
// through an explicit pending queue.
package export

import (
	"errors"
	"fmt"
	"sync"

	"keycap-studio/internal/csg"
	"keycap-studio/internal/eval"
	"keycap-studio/internal/keycap"
	"keycap-studio/internal/logger"
	"keycap-studio/internal/scene"
)

// ErrWorkerUnavailable marks the worker as unable to start (or disabled), so
// the caller runs the evaluation synchronously instead. Checked with
// errors.Is — never by matching message text.
var ErrWorkerUnavailable = errors.New("export: worker unavailable")

// ErrWorkerCrashed marks a worker that died mid-request. The active request
// and everything queued behind it get this error; the next export spawns a
// fresh worker.
var ErrWorkerCrashed = errors.New("export: worker crashed")

type request struct {
	root  *scene.Node
	reply chan response
}

type response struct {
	buffer []byte
	err    error
}

// Exporter is the off-thread execution shim. Sync disables the worker so
// everything runs on the calling goroutine (useful for tests and the CLI's
// -sync flag); NewEvaluator may be replaced to inject instrumented evaluators.
type Exporter struct {
	Sync         bool
	Detail       keycap.Detail
	FontPath     string
	Log          *logger.Logger
	NewEvaluator func() *eval.Evaluator

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []request
	running  bool
	syncEval *eval.Evaluator
}

// NewExporter returns an exporter whose worker evaluates with the default BSP
// boolean kernel at the given detail level.
func NewExporter(log *logger.Logger, detail keycap.Detail) *Exporter {
	e := &Exporter{Detail: detail, Log: log}
	e.cond = sync.NewCond(&e.mu)
	e.NewEvaluator = func() *eval.Evaluator {
		ev := eval.New(csg.NewBSPOperator(), log)
		ev.Detail = e.Detail
		ev.Gen.FontPath = e.FontPath
		return ev
	}
	return e
}

// ExportScene evaluates the scene in Export mode and returns the binary STL
// bytes. The tree is deep-cloned before leaving the caller, so the caller may
// keep editing it. Worker-transport failures fall back to synchronous
// evaluation exactly once; if the fallback also fails, the original transport
// error is surfaced.
func (e *Exporter) ExportScene(root *scene.Node) ([]byte, error) {
	clone, err := root.Clone()
	if err != nil {
		return nil, err
	}
	buf, err := e.submit(clone)
	if err != nil && (errors.Is(err, ErrWorkerUnavailable) || errors.Is(err, ErrWorkerCrashed)) {
		e.Log.Logf("export: %v, falling back to synchronous evaluation", err)
		fallback, ferr := e.exportSync(clone)
		if ferr != nil {
			return nil, err
		}
		return fallback, nil
	}
	return buf, err
}

// submit enqueues a request for the worker and blocks for its response.
// Starts the worker lazily; the queue never reorders.
func (e *Exporter) submit(root *scene.Node) ([]byte, error) {
	e.mu.Lock()
	if e.Sync {
		e.mu.Unlock()
		return nil, ErrWorkerUnavailable
	}
	if !e.running {
		e.running = true
		go e.workerLoop()
	}
	reply := make(chan response, 1)
	e.pending = append(e.pending, request{root: root, reply: reply})
	e.cond.Signal()
	e.mu.Unlock()

	r := <-reply
	return r.buffer, r.err
}

// workerLoop pops requests in FIFO order. On a panic inside processing, the
// active request is rejected, the queue is drained with rejections (no silent
// hangs), and the goroutine exits; the next submission starts a fresh worker
// with a fresh evaluator.
func (e *Exporter) workerLoop() {
	ev := e.NewEvaluator()
	for {
		e.mu.Lock()
		for len(e.pending) == 0 {
			e.cond.Wait()
		}
		req := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()

		buf, err, crashed := e.process(ev, req.root)
		if crashed {
			req.reply <- response{err: err}
			e.mu.Lock()
			rest := e.pending
			e.pending = nil
			e.running = false
			e.mu.Unlock()
			for _, r := range rest {
				r.reply <- response{err: fmt.Errorf("%w: queued request dropped", ErrWorkerCrashed)}
			}
			return
		}
		req.reply <- response{buffer: buf, err: err}
	}
}

// process evaluates one request, converting panics into ErrWorkerCrashed.
func (e *Exporter) process(ev *eval.Evaluator, root *scene.Node) (buf []byte, err error, crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerCrashed, r)
			crashed = true
		}
	}()
	buf, err = encodeScene(ev, root)
	return buf, err, false
}

// exportSync is the main-thread fallback path. Its evaluator is created
// lazily and kept, mirroring the worker's cache lifetime.
func (e *Exporter) exportSync(root *scene.Node) ([]byte, error) {
	e.mu.Lock()
	if e.syncEval == nil {
		e.syncEval = e.NewEvaluator()
	}
	ev := e.syncEval
	e.mu.Unlock()
	return encodeScene(ev, root)
}

func encodeScene(ev *eval.Evaluator, root *scene.Node) ([]byte, error) {
	obj := ev.Evaluate(root, eval.Export)
	mesh := obj.Flatten()
	if mesh.IsEmpty() {
		return nil, errors.New("export: scene produced no geometry")
	}
	return EncodeSTL(mesh), nil
}
