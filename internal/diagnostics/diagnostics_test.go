package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/tally/internal/token"
	"github.com/funvibe/tally/internal/typesystem"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *DiagnosticError
		want string
	}{
		{
			name: "positioned with file",
			err: func() *DiagnosticError {
				e := NewError(ErrA001, token.At(3, 7), "undefined: %s", "x")
				e.File = "main.tally"
				return e
			}(),
			want: "main.tally:3:7: unresolved identifier [A001]: undefined: x",
		},
		{
			name: "no position",
			err:  NewError(ErrA008, token.Token{}, "program has no main() function"),
			want: "missing entry point [A008]: program has no main() function",
		},
		{
			name: "type sets",
			err: NewTypeError(token.At(1, 2),
				[]typesystem.Type{typesystem.String}, []typesystem.Type{typesystem.Int, typesystem.Decimal},
				"cannot assign"),
			want: "1:2: type error [A003]: cannot assign (got string, expected int | decimal)",
		},
		{
			name: "literal percent without args",
			err:  NewError(ErrR001, token.At(2, 1), "100%"),
			want: "2:1: runtime error [R001]: 100%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectorAborts(t *testing.T) {
	c := NewCollector(2)
	if err := c.Handle(NewError(ErrA001, token.At(1, 1), "a")); err != nil {
		t.Fatalf("first diagnostic aborted: %v", err)
	}
	if err := c.Handle(NewError(ErrA001, token.At(2, 1), "b")); !errors.Is(err, ErrAborted) {
		t.Fatalf("second diagnostic: got %v, want ErrAborted", err)
	}
	if len(c.Errors()) != 2 || !c.HasErrors() {
		t.Errorf("collected %d", len(c.Errors()))
	}
	c.Reset()
	if c.HasErrors() {
		t.Error("Reset left diagnostics behind")
	}
}

func TestCollectorWithoutLimit(t *testing.T) {
	c := NewCollector(0)
	for i := 0; i < 50; i++ {
		if err := c.Handle(NewError(ErrA003, token.At(i+1, 1), "x")); err != nil {
			t.Fatalf("unexpected abort at %d", i)
		}
	}
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, 2)
	if c.Color {
		t.Fatal("a buffer is not a terminal")
	}
	if err := c.Handle(NewError(ErrA002, token.At(1, 5), "unknown type EUR")); err != nil {
		t.Fatal(err)
	}
	if err := c.Handle(NewError(ErrA002, token.At(2, 5), "unknown type GBP")); !errors.Is(err, ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"error 1:5: unknown type [A002]: unknown type EUR",
		"error 2:5: unknown type [A002]: unknown type GBP",
		"aborting after 2 errors",
	}
	if len(lines) != len(want) {
		t.Fatalf("output:\n%s", out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if c.Count() != 2 {
		t.Errorf("Count = %d", c.Count())
	}
}

func TestTeeReturnsFirstAbort(t *testing.T) {
	a := NewCollector(1)
	b := NewCollector(0)
	h := Tee(a, b)
	if err := h.Handle(NewError(ErrA004, token.At(1, 1), "dup")); !errors.Is(err, ErrAborted) {
		t.Errorf("got %v, want ErrAborted", err)
	}
	if len(b.Errors()) != 1 {
		t.Error("every handler must see the diagnostic")
	}
}
