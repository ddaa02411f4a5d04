package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "recall version test-version-1.0.0")
}

func TestIngestCmd_RequiresPathArgument(t *testing.T) {
	_, err := execute(t, "ingest")
	require.Error(t, err)
}

func TestIngestCmd_MissingPath(t *testing.T) {
	_, err := execute(t, "ingest", "/no/such/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestQueryCmd_RejectsBadFilter(t *testing.T) {
	defer func() { queryFilter = "" }()

	_, err := execute(t, "query", "--filter", "badfield eq 'x'", "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommandsAreRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "query")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "version")
}
