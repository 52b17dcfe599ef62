package sexpr

import (
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, vs []Value)
	}{
		{
			name:  "flat list",
			input: `(net 1 "GND")`,
			check: func(t *testing.T, vs []Value) {
				if len(vs) != 1 || vs[0].Name() != "net" {
					t.Fatalf("got %+v", vs)
				}
				if n, _ := vs[0].Int(1); n != 1 {
					t.Errorf("Int(1) = %d, want 1", n)
				}
				if s, _ := vs[0].Str(2); s != "GND" {
					t.Errorf("Str(2) = %q, want GND", s)
				}
			},
		},
		{
			name:  "quoted string with spaces and parens",
			input: `(net 4 "Net-(R1-Pad1) copy")`,
			check: func(t *testing.T, vs []Value) {
				s, err := vs[0].Str(2)
				if err != nil {
					t.Fatal(err)
				}
				if s != "Net-(R1-Pad1) copy" {
					t.Errorf("Str(2) = %q", s)
				}
				if !vs[0].List[2].Quoted {
					t.Errorf("string atom lost its quoted marker")
				}
			},
		},
		{
			name:  "escaped quote",
			input: `(title "a \"b\" c")`,
			check: func(t *testing.T, vs []Value) {
				if s, _ := vs[0].Str(1); s != `a "b" c` {
					t.Errorf("Str(1) = %q", s)
				}
			},
		},
		{
			name:  "nested lists",
			input: `(segment (start 1.5 2) (end 3 4) (layer "F.Cu"))`,
			check: func(t *testing.T, vs []Value) {
				start, ok := vs[0].Find("start")
				if !ok {
					t.Fatalf("missing start node")
				}
				if x, _ := start.Float(1); x != 1.5 {
					t.Errorf("start x = %v", x)
				}
				if layer, ok := vs[0].Find("layer"); !ok {
					t.Errorf("missing layer node")
				} else if s, _ := layer.Str(1); s != "F.Cu" {
					t.Errorf("layer = %q", s)
				}
			},
		},
		{
			name:  "bare flag atom",
			input: `(via blind (at 1 2))`,
			check: func(t *testing.T, vs []Value) {
				if !vs[0].Has("blind") {
					t.Errorf("Has(blind) = false")
				}
				if vs[0].Has("micro") {
					t.Errorf("Has(micro) = true")
				}
			},
		},
		{
			name:  "multiple top level expressions",
			input: "(a 1) (b 2)",
			check: func(t *testing.T, vs []Value) {
				if len(vs) != 2 || vs[1].Name() != "b" {
					t.Fatalf("got %+v", vs)
				}
			},
		},
		{
			name:  "comment skipped",
			input: "# header comment\n(a 1)",
			check: func(t *testing.T, vs []Value) {
				if len(vs) != 1 || vs[0].Name() != "a" {
					t.Fatalf("got %+v", vs)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vs, err := ParseString(tc.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			tc.check(t, vs)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"(unclosed", "stray )", "(a ))"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseString(input); err == nil {
				t.Fatalf("expected an error for %q", input)
			}
		})
	}
}

func TestFindAll(t *testing.T) {
	vs, err := Parse(strings.NewReader(`(root (net 0 "") (net 1 "GND") (layer x))`))
	if err != nil {
		t.Fatal(err)
	}
	nets := vs[0].FindAll("net")
	if len(nets) != 2 {
		t.Fatalf("FindAll(net) = %d nodes, want 2", len(nets))
	}
	if len(vs[0].FindAll("zone")) != 0 {
		t.Errorf("FindAll for absent key must be empty")
	}
}
