package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLsofPIDs(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []int
	}{
		{"empty", "", nil},
		{"single", "1234\n", []int{1234}},
		{"multiple", "1234\n5678\n", []int{1234, 5678}},
		{"garbage lines skipped", "1234\nnot-a-pid\n90\n", []int{1234, 90}},
		{"surrounding whitespace", "  321  \n", []int{321}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLsofPIDs(tt.out))
		})
	}
}

func TestParseNetstatPIDs(t *testing.T) {
	out := "" +
		"Active Connections\n" +
		"\n" +
		"  Proto  Local Address          Foreign Address        State           PID\n" +
		"  TCP    0.0.0.0:8080           0.0.0.0:0              LISTENING       4312\n" +
		"  TCP    127.0.0.1:8080         0.0.0.0:0              LISTENING       4312\n" +
		"  TCP    0.0.0.0:9090           0.0.0.0:0              LISTENING       777\n" +
		"  TCP    127.0.0.1:8080         127.0.0.1:51000        ESTABLISHED     4312\n" +
		"  UDP    0.0.0.0:8080           *:*                                    555\n"

	assert.Equal(t, []int{4312}, parseNetstatPIDs(out, 8080))
	assert.Equal(t, []int{777}, parseNetstatPIDs(out, 9090))
	assert.Empty(t, parseNetstatPIDs(out, 1234))
}
