package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":9999", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":9999"},
		},
		{
			name:    "equals form",
			args:    []string{"--data=/tmp/market", "-a=:1234"},
			allowed: []string{"-a"},
			want:    []string{"-a=:1234"},
		},
		{
			name:    "flag followed by another flag",
			args:    []string{"-a", "-d", "/tmp"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", "-d", "/tmp"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":1234"},
			allowed: []string{"-z"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestJSONConfigFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"marketd", "-c", "conf.json", "-a", ":1234"}
	assert.Equal(t, "conf.json", JSONConfigFlags())

	os.Args = []string{"marketd", "-config=other.json"}
	assert.Equal(t, "other.json", JSONConfigFlags())

	os.Args = []string{"marketd", "-a", ":1234"}
	assert.Equal(t, "", JSONConfigFlags())
}
