package engine

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/phylotree/internal/testutil"
)

type rebuilds struct {
	mu      sync.Mutex
	results [][]*Result
	errs    []error
}

func (r *rebuilds) record(results []*Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results)
	r.errs = append(r.errs, err)
}

func (r *rebuilds) last() (int, []*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.results)
	if n == 0 {
		return 0, nil, nil
	}
	return n, r.results[n-1], r.errs[n-1]
}

func TestEngine_WatchRebuildsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	eng := newTestEngine(t)
	path := testutil.WriteTreeHTML(t)
	updated := testutil.TreeHTMLWithRows(
		`<tr><td></td><td></td><td>L1b</td><td>T152C</td><td></td><td></td><td></td></tr>`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var got rebuilds
	go func() {
		done <- eng.Watch(ctx, []string{path}, 20*time.Millisecond, got.record)
	}()

	// The watcher may not be registered yet, so keep writing until a rebuild lands.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(updated), 0o600)
		_, results, err := got.last()
		return err == nil && len(results) == 1 && results[0].Tree.Count() == 7
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestEngine_WatchReportsBuildErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	eng := newTestEngine(t)
	path := testutil.WriteTreeHTML(t)
	broken := testutil.TreeHTMLWithRows(
		`<tr><td></td><td>L2</td><td>L3</td><td>C152T</td><td></td><td></td><td></td></tr>`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	var got rebuilds
	go func() {
		done <- eng.Watch(ctx, []string{path}, 10*time.Millisecond, got.record)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(broken), 0o600)
		n, _, err := got.last()
		return n > 0 && err != nil
	}, 5*time.Second, 50*time.Millisecond)

	_, _, err := got.last()
	assert.Contains(t, err.Error(), "duplicate haplogroup name")

	cancel()
	assert.NoError(t, <-done)
}

func TestEngine_WatchMissingDirectory(t *testing.T) {
	eng := newTestEngine(t)
	err := eng.Watch(context.Background(), []string{"/does/not/exist/tree.htm"}, 0, func([]*Result, error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
