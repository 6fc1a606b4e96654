package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

const nvmScript = "nvm.sh"

// Script builds the bash program for one operation. nvm is sourced and the
// pinned node activated on every call; no shell state survives between runs.
func Script(nvmDir, nodeVersion, dir, command string) string {
	nvmSh := shellquote.Join(filepath.Join(nvmDir, nvmScript))
	version := shellquote.Join(nodeVersion)
	lines := []string{
		"export NVM_DIR=" + shellquote.Join(nvmDir),
		fmt.Sprintf("[ -s %s ] && . %s", nvmSh, nvmSh),
		"nvm install " + version + " --no-progress",
		"nvm use " + version,
		"cd " + shellquote.Join(dir) + " || exit $?",
		command,
	}
	return strings.Join(lines, "\n") + "\n"
}

// Executor runs a composed script and returns its exit status. The error is
// only set when the process could not be run at all.
type Executor interface {
	Run(script string) (int, error)
}

// BashExecutor runs scripts with bash, wired to the terminal unless the
// streams are overridden.
type BashExecutor struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (e BashExecutor) Run(script string) (int, error) {
	shell := e.Shell
	if shell == "" {
		shell = "/bin/bash"
	}
	proc := exec.Command(shell, "-c", script)
	proc.Stdin = orReader(e.Stdin, os.Stdin)
	proc.Stdout = orWriter(e.Stdout, os.Stdout)
	proc.Stderr = orWriter(e.Stderr, os.Stderr)
	err := proc.Run()
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	return 1, err
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

func buildCommand(flavor Flavor, outputDir string) string {
	switch flavor {
	case FlavorVite:
		return "npm run build -- --outDir " + shellquote.Join(outputDir)
	case FlavorCRA:
		return "BUILD_PATH=" + shellquote.Join(outputDir) + " npm run build"
	default:
		return "npm run build"
	}
}

func startCommand(flavor Flavor) string {
	if flavor == FlavorVite {
		return "npm run dev"
	}
	return "npm start"
}

func scaffoldCommand(name string, template Template) string {
	if template == TemplateVite {
		return "npm create vite@latest " + shellquote.Join(name) + " -- --template react"
	}
	return "npx create-react-app " + shellquote.Join(name)
}
