package commander

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

var errMock = errors.New("mock error")

var classifyTests = []struct {
	err  error
	want Outcome
}{
	{nil, Succeeded},
	{ErrCommandNotFound, NotFound},
	{fmt.Errorf("%w: foo", ErrCommandNotFound), NotFound},
	{&CommandError{[]string{"foo"}, errMock}, Failed},
	{errMock, Failed},
}

func TestClassify(t *testing.T) {
	for _, test := range classifyTests {
		if got := Classify(test.err); got != test.want {
			t.Errorf("Classify(%v) = %v, want %v", test.err, got, test.want)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{
		Succeeded: "succeeded", NotFound: "not_found", Failed: "failed",
		Outcome(9): "Outcome(9)",
	} {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestCommandError(t *testing.T) {
	err := &CommandError{[]string{"rm", "-rf"}, errMock}
	if got, want := err.Error(), "rm -rf: mock error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, errMock) {
		t.Errorf("CommandError does not unwrap to its cause")
	}
}

func TestResolverFunc(t *testing.T) {
	var got []string
	f := ResolverFunc(func(_ context.Context, _ io.Writer, argv []string) error {
		got = argv
		return nil
	})
	f.Run(context.Background(), io.Discard, []string{"a", "b"})
	if strings.Join(got, " ") != "a b" {
		t.Errorf("ResolverFunc called with %v, want [a b]", got)
	}
}
