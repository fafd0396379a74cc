package digest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/OneOfOne/xxhash"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "---\nname: a\n---\nbody\n", "---\nname: a\n---\nbody\n", true},
		{"same size different content", "abcd", "abce", false},
		{"different size", "abc", "abcd", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			a := write(t, dir, "a.md", []byte(tt.a))
			b := write(t, dir, "b.md", []byte(tt.b))

			got, err := Equal(a, b)
			if err != nil {
				t.Fatalf("Equal: %v", err)
			}
			if got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.md", []byte("x"))

	if _, err := Equal(a, filepath.Join(dir, "missing.md")); err == nil {
		t.Error("Equal() should fail when a file is missing")
	}
	if _, err := Equal(filepath.Join(dir, "missing.md"), a); err == nil {
		t.Error("Equal() should fail when a file is missing")
	}
}

func TestFileMatchesChecksum(t *testing.T) {
	data := []byte("You are a PHPStan error resolver.\n")
	path := write(t, t.TempDir(), "agent.md", data)

	sum, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if want := xxhash.Checksum64(data); sum != want {
		t.Errorf("File() = %s, want %s", Hex(sum), Hex(want))
	}
}

func TestHexIsZeroPadded(t *testing.T) {
	if got := Hex(0xab); got != "00000000000000ab" {
		t.Errorf("Hex(0xab) = %q", got)
	}
	if got := Hex(^uint64(0)); got != "ffffffffffffffff" {
		t.Errorf("Hex(max) = %q", got)
	}
}

// TestEqualMatchesByteComparison tests that Equal agrees with a full byte comparison
func TestEqualMatchesByteComparison(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genContent := gen.SliceOf(gen.UInt8())

	properties.Property("Equal(a, b) iff bytes.Equal", prop.ForAll(
		func(a, b []byte, same bool) bool {
			if same {
				b = append([]byte(nil), a...)
			}
			dir := t.TempDir()
			pa := write(t, dir, "a", a)
			pb := write(t, dir, "b", b)

			got, err := Equal(pa, pb)
			if err != nil {
				return false
			}
			return got == bytes.Equal(a, b)
		},
		genContent,
		genContent,
		gen.Bool(),
	))

	properties.Property("Equal is symmetric", prop.ForAll(
		func(a, b []byte) bool {
			dir := t.TempDir()
			pa := write(t, dir, "a", a)
			pb := write(t, dir, "b", b)

			ab, errAB := Equal(pa, pb)
			ba, errBA := Equal(pb, pa)
			return errAB == nil && errBA == nil && ab == ba
		},
		genContent,
		genContent,
	))

	properties.TestingRun(t)
}
