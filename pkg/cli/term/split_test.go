package term

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type sliceReader struct{ chunks []string }

func (r *sliceReader) ReadChunk() (string, error) {
	if len(r.chunks) == 0 {
		return "", io.EOF
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	return chunk, nil
}

func (r *sliceReader) Stop() error { return nil }
func (r *sliceReader) Close()      {}

func TestSplitLines(t *testing.T) {
	r := SplitLines(&sliceReader{[]string{"echo a\necho b\r\n", "x", "\n\n"}})
	var got []string
	for {
		chunk, err := r.ReadChunk()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, chunk)
	}
	want := []string{"echo a", "\n", "echo b", "\r", "\n", "x", "\n", "\n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chunks (-want +got):\n%s", diff)
	}
}
