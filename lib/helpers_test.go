package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// nvmStub stands in for nvm.sh: nvm is a no-op and npm records where and
// how it was called, exiting with $NPM_EXIT.
const nvmStub = `nvm() { return 0; }
npm() {
  pwd >> "$NODERUN_TEST_LOG"
  echo "npm $*" >> "$NODERUN_TEST_LOG"
  return "${NPM_EXIT:-0}"
}
`

type recorder struct {
	scripts []string
	code    int
	err     error
	onRun   func(script string)
}

func (r *recorder) Run(script string) (int, error) {
	r.scripts = append(r.scripts, script)
	if r.onRun != nil {
		r.onRun(script)
	}
	return r.code, r.err
}

func newNvmDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, nvmScript), []byte(nvmStub), 0644))
	return dir
}

// projectFromFixture copies ../fixtures/<name>/package.json into a temp dir.
// An empty name gives a project without a manifest.
func projectFromFixture(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	if name == "" {
		return dir
	}
	data, err := os.ReadFile(filepath.Join("..", "fixtures", name, manifestName))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestName), data, 0644))
	return dir
}

func newRunner(t *testing.T, project string, exec Executor) *Runner {
	t.Helper()
	r, err := New(Config{
		ProjectDir: project,
		NvmDir:     newNvmDir(t),
		LockDir:    t.TempDir(),
	}, WithExecutor(exec))
	require.NoError(t, err)
	return r
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}
