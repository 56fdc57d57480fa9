package markov

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestAddSequence(t *testing.T) {
	m := newTrainedModel(t, 1, "abac")

	wantTransitions := map[string]map[rune]int{
		"":  {'a': 1},
		"a": {'b': 1, 'c': 1},
		"b": {'a': 1},
	}
	if m.transitions.len() != len(wantTransitions) {
		t.Errorf("got %d contexts, want %d", m.transitions.len(), len(wantTransitions))
	}
	for ctx, want := range wantTransitions {
		freq, ok := m.transitions.get(NewContextKey([]rune(ctx)))
		if !ok {
			t.Errorf("context %q missing", ctx)
			continue
		}
		if got := frequencies(freq); !reflect.DeepEqual(got, want) {
			t.Errorf("transitions[%q] = %v, want %v", ctx, got, want)
		}
	}

	if m.termini.len() != 1 {
		t.Errorf("got %d termini, want 1", m.termini.len())
	}
	if n, _ := m.termini.get(NewContextKey([]rune("c"))); n != 1 {
		t.Errorf("termini[c] = %d, want 1", n)
	}
}

func TestAddSequencePreservesInsertionOrder(t *testing.T) {
	m := newTrainedModel(t, 0, "zyxzyx")

	freq, _ := m.transitions.get(NewContextKey[rune](nil))
	var order []rune
	for s := range freq.All() {
		order = append(order, s)
	}
	if string(order) != "zyx" {
		t.Errorf("iteration order = %q, want %q", string(order), "zyx")
	}
}

func TestAddEmptySequence(t *testing.T) {
	m := newTestModel(t, 2)
	m.AddSequence(nil)

	if m.transitions.len() != 0 {
		t.Errorf("expected no transitions, got %d contexts", m.transitions.len())
	}
	if n, _ := m.termini.get(NewContextKey[rune](nil)); n != 1 {
		t.Errorf("termini[ε] = %d, want 1", n)
	}
}

func TestContextLengthBound(t *testing.T) {
	words := []string{"", "a", "ab", "abracadabra", "mississippi", "banana"}

	for _, order := range []int{0, 1, 2, 3, 5} {
		t.Run(fmt.Sprintf("Order%d", order), func(t *testing.T) {
			m := newTrainedModel(t, order, words...)

			for key := range m.Contexts() {
				if key.Len() > order {
					t.Errorf("transition context %v longer than order %d", key, order)
				}
			}
			for key := range m.Termini() {
				if key.Len() > order {
					t.Errorf("terminus context %v longer than order %d", key, order)
				}
			}
		})
	}
}

func TestWeightConservation(t *testing.T) {
	const order = 2
	words := []string{"abracadabra", "cadabra", "abba", "a"}
	m := newTrainedModel(t, order, words...)

	// Count how often every context is followed by a symbol, independently of the model.
	want := make(map[string]int)
	for _, w := range words {
		runes := []rune(w)
		for i := range runes {
			start := max(0, i-order)
			want[string(runes[start:i])]++
		}
	}

	for key, freq := range m.Transitions() {
		ctx := string(key.Symbols())
		if freq.Total() != want[ctx] {
			t.Errorf("context %q: total %d, want %d", ctx, freq.Total(), want[ctx])
		}
		delete(want, ctx)
	}
	if len(want) != 0 {
		t.Errorf("contexts missing from the model: %v", want)
	}

	if stats := m.Stats(); stats.TotalTermini != len(words) {
		t.Errorf("TotalTermini = %d, want %d", stats.TotalTermini, len(words))
	}
}

func TestAddSeq(t *testing.T) {
	fromSlice := newTrainedModel(t, 2, "hello")
	fromSeq := newTestModel(t, 2)
	fromSeq.AddSeq(func(yield func(rune) bool) {
		for _, r := range "hello" {
			if !yield(r) {
				return
			}
		}
	})
	assertSameTables(t, fromSeq, fromSlice)
}

func TestTrain(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 3)

	n, err := m.Train(ctx, strings.NewReader("apple\napricot\r\nbanana\n"), NewLineTokenizer())
	if err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Train() processed %d sequences, want 3", n)
	}

	symbols, total := m.NextSymbols([]rune("ap"))
	if total != 2 || len(symbols) != 2 {
		t.Errorf("expected prefix 'ap' to lead to p and r once each, got %v", symbols)
	}
	if w := m.TerminusWeight([]rune("cot")); w != 1 {
		t.Errorf("expected one terminus after 'cot' (CR stripped), got %d", w)
	}
}

func TestTrainWords(t *testing.T) {
	ctx := context.Background()
	m, err := NewModel[string](2)
	if err != nil {
		t.Fatal(err)
	}

	n, err := m.Train(ctx, strings.NewReader("a b c. a b d."), NewWordTokenizer())
	if err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Train() processed %d sentences, want 2", n)
	}

	tokens, totalFreq := m.NextSymbols([]string{"a", "b"})
	if totalFreq != 2 {
		t.Errorf("expected prefix 'a b' to have total frequency of 2, got %d", totalFreq)
	}
	if len(tokens) != 2 {
		t.Errorf("expected prefix 'a b' to lead to 2 unique next tokens, got %d", len(tokens))
	}
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestModel(t, 1)
	n, err := m.Train(ctx, strings.NewReader("a\nb\n"), NewLineTokenizer())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected no sequences processed, got %d", n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestTrainTokenizerError(t *testing.T) {
	m := newTestModel(t, 1)
	_, err := m.Train(context.Background(), failingReader{}, NewLineTokenizer())
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected wrapped reader error, got %v", err)
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()
	ctx := context.Background()

	for _, order := range []int{1, 2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.SetBytes(int64(len(corpus)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				m, _ := NewModel[string](order)
				if _, err := m.Train(ctx, strings.NewReader(corpus), NewWordTokenizer()); err != nil {
					b.Fatalf("Train() failed: %v", err)
				}
			}
		})
	}
}
