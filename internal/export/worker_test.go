package export

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keycap-studio/internal/eval"
	"keycap-studio/internal/geometry"
	"keycap-studio/internal/keycap"
	"keycap-studio/internal/scene"
)

func boxScene(id string, size float32) *scene.Node {
	return &scene.Node{
		ID:   id,
		Kind: scene.KindPrimitive,
		Primitive: &scene.PrimitiveData{
			Shape: scene.ShapeBox,
			Size:  [3]float32{size, size, size},
		},
	}
}

// panicScene makes the worker's evaluator panic: a boolean export with two
// children dispatches through the nil operator installed by panickyFactory.
func panicScene() *scene.Node {
	return &scene.Node{
		ID:   "boom",
		Kind: scene.KindBoolean,
		Children: []*scene.Node{
			boxScene("a", 2),
			boxScene("b", 2),
		},
	}
}

func panickyFactory() *eval.Evaluator { return eval.New(nil, nil) }

// orderRecordingOperator notes the width of each subtract tool. Results are
// pass-through clones; only the call order matters.
type orderRecordingOperator struct {
	mu   sync.Mutex
	seen []float32
}

func (o *orderRecordingOperator) Subtract(a, b geometry.Mesh) (geometry.Mesh, error) {
	min, max := b.Bounds()
	o.mu.Lock()
	o.seen = append(o.seen, max.X()-min.X())
	o.mu.Unlock()
	return a.Clone(), nil
}

func (o *orderRecordingOperator) Union(a, b geometry.Mesh) (geometry.Mesh, error) {
	return a.Clone(), nil
}

func (o *orderRecordingOperator) Intersect(a, b geometry.Mesh) (geometry.Mesh, error) {
	return a.Clone(), nil
}

// subtractScene is a boolean subtract whose tool box width identifies the
// request to orderRecordingOperator.
func subtractScene(toolSize float32) *scene.Node {
	return &scene.Node{
		ID:   "cut",
		Kind: scene.KindBoolean,
		Children: []*scene.Node{
			boxScene("base", 10),
			boxScene("tool", toolSize),
		},
	}
}

func triangleCountOf(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[80:84])
}

func TestExportSceneProducesSTL(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	buf, err := e.ExportScene(boxScene("a", 10))
	require.NoError(t, err)
	require.Greater(t, len(buf), 84)
	assert.Equal(t, uint32(12), triangleCountOf(buf))
}

func TestExportSceneEmptyScene(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	_, err := e.ExportScene(&scene.Node{ID: "g", Kind: scene.KindGroup})
	assert.Error(t, err)
}

func TestWorkerPersistsAcrossExports(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	created := 0
	inner := e.NewEvaluator
	var evs []*eval.Evaluator
	e.NewEvaluator = func() *eval.Evaluator {
		created++
		ev := inner()
		evs = append(evs, ev)
		return ev
	}

	capScene := &scene.Node{
		ID:     "cap",
		Kind:   scene.KindKeycap,
		Keycap: &keycap.Params{Profile: "cherry", Size: "1u", TopRadius: 0.5},
	}
	_, err := e.ExportScene(capScene)
	require.NoError(t, err)
	_, err = e.ExportScene(capScene)
	require.NoError(t, err)

	// One long-lived worker evaluator serves both requests, and the second
	// export hits its geometry cache.
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, evs[0].ExportCache.Len())
}

func TestConcurrentExportsRouteReplies(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	sizes := []float32{2, 4, 8}
	results := make([][]byte, len(sizes))
	errs := make([]error, len(sizes))
	var wg sync.WaitGroup
	for i, s := range sizes {
		wg.Add(1)
		go func(i int, s float32) {
			defer wg.Done()
			results[i], errs[i] = e.ExportScene(boxScene("box", s))
		}(i, s)
	}
	wg.Wait()
	// Every caller got a full box regardless of queue interleaving.
	for i, buf := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, uint32(12), triangleCountOf(buf))
	}
}

func TestWorkerProcessesInSubmissionOrder(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	rec := &orderRecordingOperator{}
	e.NewEvaluator = func() *eval.Evaluator { return eval.New(rec, nil) }

	// Queue three requests before the worker starts so the submission order
	// is fixed, then let one workerLoop drain them.
	widths := []float32{2, 4, 8}
	var reqs []request
	e.mu.Lock()
	e.running = true
	for _, w := range widths {
		reqs = append(reqs, request{root: subtractScene(w), reply: make(chan response, 1)})
	}
	e.pending = append(e.pending, reqs...)
	e.mu.Unlock()
	go e.workerLoop()

	for _, r := range reqs {
		resp := <-r.reply
		require.NoError(t, resp.err)
	}
	assert.Equal(t, widths, rec.seen)
}

func TestSyncModeFallsBack(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	e.Sync = true
	buf, err := e.ExportScene(boxScene("a", 10))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), triangleCountOf(buf))
	// No worker was ever started.
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	assert.False(t, running)
}

func TestConcurrentSyncEmbossedExports(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	e.Sync = true
	e.FontPath = "/no/such/font.ttf" // legend degrades, lazy font state still shared

	embossed := func(id string) *scene.Node {
		return &scene.Node{
			ID:   id,
			Kind: scene.KindKeycap,
			Keycap: &keycap.Params{
				Profile:   "cherry",
				Size:      "1u",
				TopRadius: 0.5,
				Emboss:    keycap.EmbossParams{Enabled: true, Text: "A", FontSize: 5, Depth: 0.5},
			},
		}
	}

	// All callers share the one fallback evaluator; its generator's lazy font
	// load must be safe under this contention.
	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.ExportScene(embossed("cap"))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestSubmitRejectsInSyncMode(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	e.Sync = true
	_, err := e.submit(boxScene("a", 10))
	assert.ErrorIs(t, err, ErrWorkerUnavailable)
}

func TestWorkerCrashRejectsAndDrains(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	e.NewEvaluator = panickyFactory

	active := request{root: panicScene(), reply: make(chan response, 1)}
	queued := request{root: boxScene("later", 2), reply: make(chan response, 1)}
	e.mu.Lock()
	e.running = true
	e.pending = append(e.pending, active, queued)
	e.mu.Unlock()
	go e.workerLoop()

	r1 := <-active.reply
	assert.ErrorIs(t, r1.err, ErrWorkerCrashed)
	r2 := <-queued.reply
	assert.ErrorIs(t, r2.err, ErrWorkerCrashed)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	assert.False(t, running)
}

func TestWorkerRespawnsAfterCrash(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	good := e.NewEvaluator
	e.NewEvaluator = panickyFactory

	_, err := e.submit(panicScene())
	require.ErrorIs(t, err, ErrWorkerCrashed)

	// The next submission lazily starts a fresh worker with a fresh evaluator.
	e.NewEvaluator = good
	buf, err := e.submit(boxScene("a", 10))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), triangleCountOf(buf))
}

func TestCrashedWorkerFallsBackSynchronously(t *testing.T) {
	e := NewExporter(nil, keycap.DetailFast)
	calls := 0
	good := e.NewEvaluator
	e.NewEvaluator = func() *eval.Evaluator {
		calls++
		if calls == 1 {
			return panickyFactory()
		}
		return good()
	}

	// The worker (first evaluator) crashes; ExportScene retries synchronously
	// with the second, working evaluator.
	buf, err := e.ExportScene(panicScene())
	require.NoError(t, err)
	assert.Greater(t, triangleCountOf(buf), uint32(0))
}
