package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cyclebind/internal/template"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// One compiled command shared across many goroutines driving disjoint
// cycle ranges is the expected production shape; this exercises it
// under the race detector.
func TestApplyConcurrent(t *testing.T) {
	fm := template.NewFieldMap()
	fm.Set("ks", "baselines")
	fm.Set("id", "{myid}")
	fm.Set("seq", "{seq}")
	op := template.NewOpTemplate("hot", fm, map[string]string{
		"myid": "AlphaNumeric(12)",
		"seq":  "Mod(1000)",
	}, nil)

	c, err := Compile(op, nil)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 500

	// Pre-render one reference per cycle to compare against.
	reference := make([]map[string]any, workers*perWorker)
	for i := range reference {
		reference[i] = c.Apply(int64(i))
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			base := worker * perWorker
			for i := 0; i < perWorker; i++ {
				cycle := base + i
				got := c.Apply(int64(cycle))
				want := reference[cycle]
				if got["id"] != want["id"] || got["seq"] != want["seq"] || got["ks"] != want["ks"] {
					t.Errorf("cycle %d: concurrent Apply diverged from sequential result", cycle)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestBindersConcurrent(t *testing.T) {
	c := binderCommand(t)
	bind := c.NewArrayBinder("ks", "seq", "tag")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for i := int64(0); i < 200; i++ {
				row := bind(base + i)
				if row[0] != "baselines" {
					t.Error("static field corrupted under concurrent binding")
					return
				}
			}
		}(int64(w) * 1000)
	}
	wg.Wait()
}
