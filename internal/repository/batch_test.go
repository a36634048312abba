package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkInts(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		size int
		want [][]int
	}{
		{
			name: "empty input",
			in:   nil,
			size: 3,
			want: nil,
		},
		{
			name: "below batch size",
			in:   []int{1, 2},
			size: 3,
			want: [][]int{{1, 2}},
		},
		{
			name: "exact multiple",
			in:   []int{1, 2, 3, 4},
			size: 2,
			want: [][]int{{1, 2}, {3, 4}},
		},
		{
			name: "remainder chunk",
			in:   []int{1, 2, 3, 4, 5},
			size: 2,
			want: [][]int{{1, 2}, {3, 4}, {5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkInts(tt.in, tt.size))
		})
	}
}

func TestChunkStrings(t *testing.T) {
	got := chunkStrings([]string{"a", "b", "c"}, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, got)
}

func TestChunkIntsDefaultBatchSize(t *testing.T) {
	ids := make([]int, 61)
	for i := range ids {
		ids[i] = i
	}
	chunks := chunkInts(ids, inQueryBatchSize)
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 30)
	assert.Len(t, chunks[2], 1)
}
