package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CompassSecurity/binstrings/tests/e2e/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand_Help tests the --help flag
func TestRootCommand_Help(t *testing.T) {
	t.Parallel()
	stdout, _, exitErr := testutil.RunCLI(t, []string{"--help"}, nil, 30*time.Second)

	assert.Nil(t, exitErr, "Help command should succeed")
	testutil.AssertLogContains(t, stdout, []string{
		"binstrings",
		"Usage:",
		"--encoding",
		"--unicode",
		"--output-separator",
		"docs",
	})
}

func TestRootCommand_Version(t *testing.T) {
	t.Parallel()
	stdout, _, exitErr := testutil.RunCLI(t, []string{"--version"}, nil, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.Equal(t, "dev\n", stdout)
}

func TestRootCommand_Files(t *testing.T) {
	t.Parallel()
	a := testutil.WriteFile(t, "a.bin", []byte("\x00\x00hello world\x00\x01ab\x00"))
	b := testutil.WriteFile(t, "b.bin", []byte("\xff\xfesecond file\xff"))

	stdout, stderr, exitErr := testutil.RunCLI(t, []string{"-f", a, b}, nil, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.Equal(t, a+": hello world\n"+b+": second file\n", stdout)
	assert.Empty(t, stderr, "nothing is logged at the default level")
}

func TestRootCommand_Stdin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		args     []string
		stdin    []byte
		expected string
	}{
		{
			name:     "no arguments",
			args:     nil,
			stdin:    []byte("\x00\x00from a pipe\x00"),
			expected: "from a pipe\n",
		},
		{
			name:     "dash with offsets",
			args:     []string{"-t", "d", "-"},
			stdin:    []byte("\x00\x00from a pipe\x00"),
			expected: "      2 from a pipe\n",
		},
		{
			name:     "utf-8 hex",
			args:     []string{"-u", "x"},
			stdin:    []byte("\x00gr\xc3\xbc\xc3\x9fe\x00"),
			expected: "gr<0xc3bc><0xc39f>e\n",
		},
		{
			name:     "big endian 32",
			args:     []string{"-e", "B"},
			stdin:    []byte("\x00\x00\x00w\x00\x00\x00o\x00\x00\x00r\x00\x00\x00d"),
			expected: "word\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stdout, _, exitErr := testutil.RunCLIWithStdin(t, tt.args, nil, tt.stdin, 30*time.Second)
			assert.Nil(t, exitErr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRootCommand_MissingFileExitCode(t *testing.T) {
	t.Parallel()
	present := testutil.WriteFile(t, "present.bin", []byte("still scanned"))
	missing := filepath.Join(t.TempDir(), "missing.bin")

	stdout, stderr, exitErr := testutil.RunCLI(t, []string{missing, present}, nil, 30*time.Second)

	var exit *exec.ExitError
	require.ErrorAs(t, exitErr, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Equal(t, "still scanned\n", stdout)
	testutil.AssertLogContains(t, stderr, []string{"Skipping input", "no such file"})
}

func TestRootCommand_InvalidOption(t *testing.T) {
	t.Parallel()
	_, stderr, exitErr := testutil.RunCLIWithStdin(t, []string{"--encoding", "z"}, nil, []byte("data"), 30*time.Second)

	assert.NotNil(t, exitErr)
	testutil.AssertLogContains(t, stderr, []string{"invalid encoding"})
}

// TestRootCommand_JSONLogOutput tests --json flag for JSON logging
func TestRootCommand_JSONLogOutput(t *testing.T) {
	t.Parallel()
	path := testutil.WriteFile(t, "a.bin", []byte("json logging"))

	stdout, stderr, exitErr := testutil.RunCLI(t, []string{"--json", "-v", path}, nil, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.Equal(t, "json logging\n", stdout, "logs never end up on stdout")
	testutil.AssertLogContains(t, stderr, []string{`"level":"debug"`, `"message":"Scanning file"`})
}

// TestRootCommand_LogFile tests --logfile flag
func TestRootCommand_LogFile(t *testing.T) {
	t.Parallel()
	logFile := filepath.Join(t.TempDir(), "test.log")
	path := testutil.WriteFile(t, "a.bin", []byte("to the log"))

	stdout, stderr, exitErr := testutil.RunCLI(t, []string{"--logfile", logFile, "-v", path}, nil, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.Equal(t, "to the log\n", stdout)
	assert.Empty(t, stderr)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Scanning file")
	assert.NotContains(t, string(content), "\x1b[", "log files are not colored by default")
}

func TestRootCommand_EnvironmentVariables(t *testing.T) {
	t.Parallel()
	path := testutil.WriteFile(t, "a.bin", []byte("ab\x00abcdef\x00"))

	stdout, _, exitErr := testutil.RunCLI(t, []string{path}, []string{"BINSTRINGS_SCAN_BYTES=2", "BINSTRINGS_SCAN_OUTPUT_SEPARATOR=;"}, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.Equal(t, "ab;abcdef;", stdout)
}

func TestRootCommand_DataSections(t *testing.T) {
	t.Parallel()
	self, err := os.Executable()
	require.NoError(t, err)

	stdout, _, exitErr := testutil.RunCLI(t, []string{"--data", "-n", "12", self}, nil, 60*time.Second)

	assert.Nil(t, exitErr)
	assert.True(t, strings.Contains(stdout, "TestRootCommand_DataSections"), "test names live in the data sections")
}

func TestRootCommand_Docs(t *testing.T) {
	t.Parallel()
	outDir := filepath.Join(t.TempDir(), "cli-docs")

	_, _, exitErr := testutil.RunCLI(t, []string{"docs", "--output", outDir}, nil, 30*time.Second)

	assert.Nil(t, exitErr)
	assert.FileExists(t, filepath.Join(outDir, "mkdocs.yml"))
	assert.FileExists(t, filepath.Join(outDir, "binstrings", "index.md"))
}
