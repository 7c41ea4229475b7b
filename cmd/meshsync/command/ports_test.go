package command

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshsync/internal/app"
	"meshsync/internal/console"
)

func noInput() *console.Lines {
	return console.NewLines(strings.NewReader(""))
}

func TestResolvePorts_AfterDash(t *testing.T) {
	var out bytes.Buffer

	ports, err := resolvePorts(context.Background(), 1, []string{"scene.blend", "8000", "8001"}, noInput(), &out)

	require.NoError(t, err)
	assert.Equal(t, app.Ports{Listen: 8000, Peer: 8001}, ports)
	assert.Empty(t, out.String(), "no prompt when ports are given")
}

func TestResolvePorts_LastTwoTokensWin(t *testing.T) {
	ports, err := resolvePorts(context.Background(), 0, []string{"x", "8000", "8001"}, noInput(), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, app.Ports{Listen: 8000, Peer: 8001}, ports)
}

func TestResolvePorts_DashErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"TooFew", []string{"8000"}},
		{"NotANumber", []string{"eight", "8001"}},
		{"Negative", []string{"8000", "-1"}},
		{"TooLarge", []string{"8000", "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolvePorts(context.Background(), 0, tt.args, noInput(), &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestResolvePorts_Prompted(t *testing.T) {
	var out bytes.Buffer
	lines := console.NewLines(strings.NewReader(" 9000 \n9001\ncreate\n"))

	ports, err := resolvePorts(context.Background(), -1, nil, lines, &out)

	require.NoError(t, err)
	assert.Equal(t, app.Ports{Listen: 9000, Peer: 9001}, ports)
	assert.Equal(t, "My port: Peer port: ", out.String())

	next, err := lines.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "create", next, "remaining input belongs to the command loop")
}

func TestResolvePorts_PromptedBadInput(t *testing.T) {
	_, err := resolvePorts(context.Background(), -1, nil, console.NewLines(strings.NewReader("abc\n")), &bytes.Buffer{})
	assert.Error(t, err)

	_, err = resolvePorts(context.Background(), -1, nil, noInput(), &bytes.Buffer{})
	assert.Error(t, err, "EOF before ports")
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer

	printBanner(&out, app.Ports{Listen: 8000, Peer: 8001})

	assert.Contains(t, out.String(), "My port: 08000")
	assert.Contains(t, out.String(), "Peer port: 08001")
	assert.Contains(t, out.String(), "- commit")
}
