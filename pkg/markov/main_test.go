package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTestModel creates an empty rune model of the given order.
func newTestModel(t testing.TB, order int) *Model[rune] {
	t.Helper()
	m, err := NewModel[rune](order)
	if err != nil {
		t.Fatalf("NewModel(%d) error = %v", order, err)
	}
	return m
}

// newTrainedModel creates a rune model and trains it on every word, one
// sequence per word.
func newTrainedModel(t testing.TB, order int, words ...string) *Model[rune] {
	t.Helper()
	m := newTestModel(t, order)
	for _, w := range words {
		m.AddSequence([]rune(w))
	}
	return m
}

// seeded returns a deterministic source of randomness.
func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// scriptedRand returns the given draws in order, cycling when exhausted.
type scriptedRand struct {
	draws []int
	next  int
}

func (r *scriptedRand) IntN(n int) int {
	v := r.draws[r.next%len(r.draws)]
	r.next++
	if v >= n {
		panic("scripted draw out of range")
	}
	return v
}

// frequencies flattens a frequency table into a map for comparisons.
func frequencies[T comparable](f *FrequencyTable[T]) map[T]int {
	out := make(map[T]int)
	for s, n := range f.All() {
		out[s] = n
	}
	return out
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
