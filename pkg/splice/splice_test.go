package splice_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/docsplice/pkg/splice"
)

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		apply func(r *splice.Replacer)
		want  string
	}{
		{
			name:  "no edits returns original",
			input: "foobarbaz",
			apply: func(_ *splice.Replacer) {},
			want:  "foobarbaz",
		},
		{
			name:  "insert in the middle",
			input: "foobazqux",
			apply: func(r *splice.Replacer) {
				r.Insert(3, "bar")
			},
			want: "foobarbazqux",
		},
		{
			name:  "multiple replacements back to front",
			input: "foobarbaz",
			apply: func(r *splice.Replacer) {
				r.Replace(6, 8, "BA")
				r.Replace(4, 6, "AR")
				r.Replace(1, 3, "OO")
			},
			want: "fOObARBAz",
		},
		{
			name:  "edits at both edges",
			input: "foobarbaz",
			apply: func(r *splice.Replacer) {
				r.Replace(6, 9, "BAZ")
				r.Replace(0, 3, "FOO")
			},
			want: "FOObarBAZ",
		},
		{
			name:  "removals",
			input: "foobarbaz",
			apply: func(r *splice.Replacer) {
				r.Remove(7, 9)
				r.Remove(4, 5)
				r.Remove(0, 2)
			},
			want: "obrb",
		},
		{
			name:  "replacement longer than range",
			input: "foobarbaz",
			apply: func(r *splice.Replacer) {
				r.Replace(3, 6, "BAAAAAAAAR")
			},
			want: "fooBAAAAAAAARbaz",
		},
		{
			name:  "adjacent ranges",
			input: "abcdef",
			apply: func(r *splice.Replacer) {
				r.Replace(3, 6, "DEF")
				r.Replace(0, 3, "ABC")
			},
			want: "ABCDEF",
		},
		{
			name:  "empty input insert",
			input: "",
			apply: func(r *splice.Replacer) {
				r.Insert(0, "hello")
			},
			want: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := splice.New(tt.input)
			tt.apply(r)
			assert.Equal(t, tt.want, r.Finish())
		})
	}
}

func TestRest(t *testing.T) {
	t.Parallel()

	r := splice.New("foobarbaz")
	r.Replace(6, 9, "BAZ")
	assert.Equal(t, "foobar", r.Rest())
}

func TestPanics(t *testing.T) {
	t.Parallel()

	t.Run("reversed range", func(t *testing.T) {
		t.Parallel()

		r := splice.New("foobarbaz")
		assert.Panics(t, func() { r.Replace(2, 1, "x") })
	})

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()

		r := splice.New("foobarbaz")
		assert.Panics(t, func() { r.Replace(3, 10, "x") })
	})

	t.Run("overlap", func(t *testing.T) {
		t.Parallel()

		r := splice.New("foobarbaz")
		r.Replace(6, 9, "whatever")
		assert.Panics(t, func() { r.Replace(5, 7, "x") })
	})

	t.Run("wrong order", func(t *testing.T) {
		t.Parallel()

		r := splice.New("foobarbaz")
		r.Replace(0, 3, "x")
		assert.Panics(t, func() { r.Replace(4, 5, "y") })
	})
}

// FuzzReplacer checks the round-trip property on fuzz-chosen inputs: edits
// over disjoint ranges, applied back to front, must equal the string
// rebuilt left to right.
func FuzzReplacer(f *testing.F) {
	f.Add("foobarbaz", int64(1))
	f.Add("", int64(2))
	f.Add("hello world", int64(42))

	f.Fuzz(func(t *testing.T, input string, seed int64) {
		rng := rand.New(rand.NewSource(seed))
		n := len(input)

		cuts := make([]int, 0, 6)
		for i := 0; i < 6; i++ {
			cuts = append(cuts, rng.Intn(n+1))
		}
		sort.Ints(cuts)

		type edit struct {
			start, end int
			text       string
		}
		var edits []edit
		for i := 0; i+1 < len(cuts); i += 2 {
			text := ""
			for j := rng.Intn(4); j > 0; j-- {
				text += "x"
			}
			edits = append(edits, edit{start: cuts[i], end: cuts[i+1], text: text})
		}

		var want []byte
		prev := 0
		for _, e := range edits {
			want = append(want, input[prev:e.start]...)
			want = append(want, e.text...)
			prev = e.end
		}
		want = append(want, input[prev:]...)

		r := splice.New(input)
		for i := len(edits) - 1; i >= 0; i-- {
			r.Replace(edits[i].start, edits[i].end, edits[i].text)
		}

		if got := r.Finish(); got != string(want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

// TestRandomDisjointRanges checks the round-trip property: for any set of
// disjoint ranges applied in decreasing start order, the result equals the
// original with each range's content replaced.
func TestRandomDisjointRanges(t *testing.T) {
	t.Parallel()

	const alphabet = "abcdefghijklmnopqrstuvwxyz"

	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(64)
		input := make([]byte, n)
		for i := range input {
			input[i] = alphabet[rng.Intn(len(alphabet))]
		}

		// Pick disjoint ranges by cutting the string at random points.
		cuts := make([]int, 0, 8)
		for i := 0; i < 8; i++ {
			cuts = append(cuts, rng.Intn(n+1))
		}
		sort.Ints(cuts)

		type edit struct {
			start, end int
			text       string
		}
		var edits []edit
		for i := 0; i+1 < len(cuts); i += 2 {
			text := ""
			for j := rng.Intn(5); j > 0; j-- {
				text += string(alphabet[rng.Intn(len(alphabet))])
			}
			edits = append(edits, edit{start: cuts[i], end: cuts[i+1], text: text})
		}

		// Expected result, built left to right.
		var want []byte
		prev := 0
		for _, e := range edits {
			want = append(want, input[prev:e.start]...)
			want = append(want, e.text...)
			prev = e.end
		}
		want = append(want, input[prev:]...)

		// Replacer is fed the same edits back to front.
		r := splice.New(string(input))
		for i := len(edits) - 1; i >= 0; i-- {
			r.Replace(edits[i].start, edits[i].end, edits[i].text)
		}

		require.Equal(t, string(want), r.Finish(), "trial %d input %q", trial, input)
	}
}
