package lib

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/disiqueira/gotree/v3"
)

// Action names an operation that can be planned without running it.
type Action string

const (
	ActionInstall Action = "install"
	ActionBuild   Action = "build"
	ActionStart   Action = "start"
)

// Runner drives npm through the vendored nvm for a single project. It is not
// safe for concurrent use.
type Runner struct {
	ProjectName string
	Flavor      Flavor

	cfg   Config
	pjson *PJSON
	exec  Executor
}

type Option func(*Runner)

// WithExecutor replaces the bash executor.
func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.exec = e
	}
}

// New resolves cfg and checks that nvm.sh is present. No process is started.
func New(cfg Config, opts ...Option) (*Runner, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if !fileExists(filepath.Join(cfg.NvmDir, nvmScript)) {
		return nil, fmt.Errorf("%w in %s", ErrNvmNotFound, cfg.NvmDir)
	}
	r := &Runner{cfg: cfg, exec: BashExecutor{}}
	for _, opt := range opts {
		opt(r)
	}
	r.setProjectDir(cfg.ProjectDir)
	return r, nil
}

// Config returns the resolved configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

func (r *Runner) setProjectDir(dir string) {
	r.cfg.ProjectDir = dir
	r.ProjectName = filepath.Base(dir)
	r.detect()
}

func (r *Runner) detect() {
	flavor, pkg, err := detectManifest(r.cfg.ProjectDir)
	if err != nil {
		log.WithError(err).Warnf("could not detect project type, assuming %s", flavor)
	}
	r.Flavor, r.pjson = flavor, pkg
	log.Debugf("detected %s project in %s", r.Flavor, r.cfg.ProjectDir)
	if pkg == nil {
		return
	}
	if err := CheckEngines(pkg, r.cfg.NodeVersion); err != nil {
		log.Warnf("%s", err)
	}
}

// OutputDir resolves dir, or the configured default when dir is empty,
// against the project directory.
func (r *Runner) OutputDir(dir string) string {
	if dir == "" {
		dir = r.cfg.OutputDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.cfg.ProjectDir, dir)
}

func (r *Runner) script(dir, command string) string {
	return Script(r.cfg.NvmDir, r.cfg.NodeVersion, dir, command)
}

func (r *Runner) run(lockTarget, dir, command string) (int, error) {
	unlock, err := r.lock(lockTarget)
	if err != nil {
		return 1, err
	}
	defer unlock()
	script := r.script(dir, command)
	log.Debugf("running:\n%s", script)
	return r.exec.Run(script)
}

func (r *Runner) InstallDependencies() (int, error) {
	log.Infof("installing npm dependencies in %s", r.cfg.ProjectDir)
	code, err := r.run(r.cfg.ProjectDir, r.cfg.ProjectDir, "npm install")
	if err == nil && code == 0 {
		log.Infof("dependencies installed")
	}
	return code, err
}

// BuildProject builds into outputDir, falling back to Config.OutputDir.
func (r *Runner) BuildProject(outputDir string) (int, error) {
	dir := r.OutputDir(outputDir)
	log.Infof("building %s project into %s", r.Flavor, dir)
	code, err := r.run(r.cfg.ProjectDir, r.cfg.ProjectDir, buildCommand(r.Flavor, dir))
	if err == nil && code == 0 {
		log.Infof("build completed, files are in %s", dir)
	}
	return code, err
}

// StartDevServer blocks until the dev server exits.
func (r *Runner) StartDevServer() (int, error) {
	log.Infof("starting %s development server", r.Flavor)
	code, err := r.run(r.cfg.ProjectDir, r.cfg.ProjectDir, startCommand(r.Flavor))
	if err == nil {
		log.Infof("development server exited with code %d", code)
	}
	return code, err
}

// CreateDefaultProject scaffolds <ProjectDir>/<name> from template and, on
// success, points the runner at the new project. It refuses to reuse an
// existing directory.
func (r *Runner) CreateDefaultProject(name string, template Template) (int, error) {
	target, command, err := r.prepareScaffold(name, template)
	if err != nil {
		return 1, err
	}
	log.Infof("creating %s project at %s", template, target)
	code, err := r.run(target, r.cfg.ProjectDir, command)
	if err != nil || code != 0 {
		return code, err
	}
	log.Infof("project %q created", name)
	r.setProjectDir(target)
	return code, nil
}

func (r *Runner) prepareScaffold(name string, template Template) (string, string, error) {
	template, err := ParseTemplate(string(template))
	if err != nil {
		return "", "", err
	}
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", "", fmt.Errorf("invalid project name %q", name)
	}
	target := filepath.Join(r.cfg.ProjectDir, name)
	exists, err := pathExists(target)
	if err != nil {
		return "", "", err
	}
	if exists {
		return "", "", fmt.Errorf("%w: %s", ErrAlreadyExists, target)
	}
	return target, scaffoldCommand(name, template), nil
}

// Plan returns the script action would run, without running it.
func (r *Runner) Plan(action Action, outputDir string) (string, error) {
	switch action {
	case ActionInstall:
		return r.script(r.cfg.ProjectDir, "npm install"), nil
	case ActionBuild:
		return r.script(r.cfg.ProjectDir, buildCommand(r.Flavor, r.OutputDir(outputDir))), nil
	case ActionStart:
		return r.script(r.cfg.ProjectDir, startCommand(r.Flavor)), nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

// PlanCreate is Plan for CreateDefaultProject. The same preconditions apply.
func (r *Runner) PlanCreate(name string, template Template) (string, error) {
	_, command, err := r.prepareScaffold(name, template)
	if err != nil {
		return "", err
	}
	return r.script(r.cfg.ProjectDir, command), nil
}

// Describe renders the runner state as a tree.
func (r *Runner) Describe() string {
	tree := gotree.New(r.ProjectName)
	tree.Add("dir: " + r.cfg.ProjectDir)
	tree.Add("flavor: " + r.Flavor.String())
	tree.Add("node: " + r.cfg.NodeVersion)
	tree.Add("nvm: " + r.cfg.NvmDir)
	tree.Add("output: " + r.OutputDir(""))
	if r.pjson == nil {
		tree.Add("package.json: missing")
		return tree.Print()
	}
	if want := r.pjson.Engines["node"]; want != "" {
		tree.Add("engines.node: " + want)
	}
	if len(r.pjson.Scripts) > 0 {
		scripts := tree.Add("scripts")
		names := make([]string, 0, len(r.pjson.Scripts))
		for name := range r.pjson.Scripts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			scripts.Add(name + ": " + r.pjson.Scripts[name])
		}
	}
	return tree.Print()
}
