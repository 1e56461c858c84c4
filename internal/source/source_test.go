package source

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/validation"
)

const nameList = `# surnames
Peter
  Peady

Stevenson
`

const nameXML = `<records>
  <record><name>Karleen</name></record>
  <record><name>Colleen</name><alias>Coleen</alias></record>
</records>`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		opts Options
		want []string
	}{
		{"text", "names.txt", []byte(nameList), Options{}, []string{"Peter", "Peady", "Stevenson"}},
		{"no extension", "names", []byte("Dyun\nTyne\n"), Options{}, []string{"Dyun", "Tyne"}},
		{"xz text", "names.txt.xz", compress(t, []byte(nameList)), Options{}, []string{"Peter", "Peady", "Stevenson"}},
		{"xml default xpath", "names.xml", []byte(nameXML), Options{}, []string{"Karleen", "Colleen"}},
		{"xml custom xpath", "names.xml", []byte(nameXML), Options{XPath: "//alias"}, []string{"Coleen"}},
		{"xz xml", "names.XML.xz", compress(t, []byte(nameXML)), Options{}, []string{"Karleen", "Colleen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			got, err := Load(path, tt.opts)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), Options{})
		var ioErr *errors.IOError
		if !errors.As(err, &ioErr) {
			t.Errorf("error = %v, want IOError", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeFile(t, "names.csv", []byte("Peter\n"))
		if _, err := Load(path, Options{}); !errors.Is(err, errors.ErrUnsupported) {
			t.Errorf("error = %v, want ErrUnsupported", err)
		}
	})

	t.Run("bad xml", func(t *testing.T) {
		path := writeFile(t, "names.xml", []byte("<records><name>Peter</alias></records>"))
		if _, err := Load(path, Options{}); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("bad xz", func(t *testing.T) {
		path := writeFile(t, "names.txt.xz", []byte("plain"))
		if _, err := Load(path, Options{}); err == nil {
			t.Error("expected decompress error")
		}
	})
}

func TestParseLines(t *testing.T) {
	longName := strings.Repeat("a", 70*1024)
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{"comments and blanks", "a\n#b\n\n c \n", []string{"a", "c"}, nil},
		{"line over 64 KiB", "Peter\n" + longName + "\nStevenson\n", []string{"Peter", longName, "Stevenson"}, nil},
		{"line over limit", "Peter\n" + strings.Repeat("a", MaxLineBytes+1) + "\nStevenson\n", []string{"Peter"}, bufio.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLines([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLines returned %d names, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestLoad_MaxBytes(t *testing.T) {
	data := []byte(strings.Repeat("Stevenson\n", 100))
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"text", "names.txt", data},
		{"xz text", "names.txt.xz", compress(t, data)},
		{"xz xml", "names.xml.xz", compress(t, []byte("<r>"+strings.Repeat("<name>Peter</name>", 100)+"</r>"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			_, err := Load(path, Options{MaxBytes: 64})
			if !errors.Is(err, validation.ErrFileTooLarge) {
				t.Errorf("error = %v, want ErrFileTooLarge", err)
			}
		})
	}

	t.Run("within limit", func(t *testing.T) {
		path := writeFile(t, "names.txt.xz", compress(t, data))
		got, err := Load(path, Options{MaxBytes: int64(len(data))})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got) != 100 {
			t.Errorf("got %d names, want 100", len(got))
		}
	})
}
