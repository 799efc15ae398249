package execution

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gokoans/internal/config"
	"gokoans/internal/domain"
)

// fakeGo writes a shell script standing in for the go binary. It records its
// arguments and prints body.
func fakeGo(t *testing.T, body string, exitCode string) (binary, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake go binary is a shell script")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	binary = filepath.Join(dir, "go")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"echo \"worker=$GOKOANS_WORKER\" >> " + argsFile + "\n" +
		"cat <<'JSON'\n" + body + "\nJSON\n" +
		"exit " + exitCode + "\n"
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))
	return binary, argsFile
}

func runnerTopic(project string) domain.Topic {
	return domain.Topic{
		Name:     "about_asserts",
		FilePath: filepath.Join(project, "koans", "about_asserts_test.go"),
		Koans:    []domain.Koan{{Name: "TestAssertTruth"}, {Name: "TestAssertFalse"}},
	}
}

func TestRunner_Args(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = "/work"
	cfg.Timeout = time.Minute
	cfg.GoFlags = []string{"-race"}

	args := NewRunner(cfg, nil).Args(runnerTopic("/work"))

	assert.Equal(t, []string{
		"test", "-json", "-count=1", "-timeout", "1m0s", "-race",
		"-run", "^(TestAssertTruth|TestAssertFalse)$", "./koans",
	}, args)
}

func TestRunner_Run(t *testing.T) {
	project := t.TempDir()
	body := `{"Action":"run","Package":"k","Test":"TestAssertTruth"}
{"Action":"pass","Package":"k","Test":"TestAssertTruth","Elapsed":0}`
	binary, argsFile := fakeGo(t, body, "0")

	cfg := config.New()
	cfg.ProjectPath = project
	cfg.GoBinary = binary

	result := NewRunner(cfg, nil).Run(context.Background(), runnerTopic(project), 3)

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Contains(t, result.Output, `"Action":"pass"`)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "-run ^(TestAssertTruth|TestAssertFalse)$ ./koans")
	assert.Contains(t, string(recorded), "worker=3")
}

func TestRunner_RunFailingKoansIsNotAnError(t *testing.T) {
	project := t.TempDir()
	binary, _ := fakeGo(t, `{"Action":"fail","Package":"k","Test":"TestAssertTruth"}`, "1")

	cfg := config.New()
	cfg.ProjectPath = project
	cfg.GoBinary = binary

	result := NewRunner(cfg, nil).Run(context.Background(), runnerTopic(project), 1)

	assert.False(t, result.Success)
	assert.NoError(t, result.Error)
	assert.True(t, strings.HasPrefix(result.Output, "{"))
}

func TestRunner_RunMissingBinary(t *testing.T) {
	project := t.TempDir()
	cfg := config.New()
	cfg.ProjectPath = project
	cfg.GoBinary = filepath.Join(project, "no-such-go")

	result := NewRunner(cfg, nil).Run(context.Background(), runnerTopic(project), 1)

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}
