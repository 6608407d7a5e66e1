package textstat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShannonEntropy(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "empty", text: "", want: 0.0},
		{name: "single char", text: "aaaa", want: 0.0},
		{name: "two chars even", text: "abab", want: 1.0},
		{name: "four chars even", text: "abcd", want: 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ShannonEntropy(tt.text), 1e-9)
		})
	}
}

func TestShannonEntropyRealisticRange(t *testing.T) {
	code := `import os

def main():
    path = os.environ.get("DATA_DIR", "/tmp")
    for name in os.listdir(path):
        print(name)

if __name__ == "__main__":
    main()
`
	e := ShannonEntropy(code)
	assert.Greater(t, e, 3.0)
	assert.Less(t, e, 6.0)
}

func TestShannonEntropyRepetitiveIsLow(t *testing.T) {
	repetitive := strings.Repeat("ab", 500)
	varied := "The quick brown fox jumps over the lazy dog 0123456789"
	assert.Less(t, ShannonEntropy(repetitive), ShannonEntropy(varied))
}
