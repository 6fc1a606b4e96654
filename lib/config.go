package lib

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNodeVersion = "18.16.0"
	DefaultOutputDir   = "build"
	ProjectConfigFile  = ".noderun.yaml"
)

// Config is everything a Runner needs. Zero fields fall back to defaults in
// New.
type Config struct {
	ProjectDir  string
	NvmDir      string
	NodeVersion string
	// OutputDir is resolved against ProjectDir when relative.
	OutputDir string
	LockDir   string
	// LockWait is how long to retry a held project lock. Zero fails fast.
	LockWait time.Duration
}

// Merge returns c with every non-zero field of o applied on top.
func (c Config) Merge(o Config) Config {
	if o.ProjectDir != "" {
		c.ProjectDir = o.ProjectDir
	}
	if o.NvmDir != "" {
		c.NvmDir = o.NvmDir
	}
	if o.NodeVersion != "" {
		c.NodeVersion = o.NodeVersion
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.LockDir != "" {
		c.LockDir = o.LockDir
	}
	if o.LockWait != 0 {
		c.LockWait = o.LockWait
	}
	return c
}

func (c Config) normalize() (Config, error) {
	var err error
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.ProjectDir, err = absPath(c.ProjectDir); err != nil {
		return c, err
	}
	if c.NvmDir == "" {
		if c.NvmDir, err = DefaultNvmDir(); err != nil {
			return c, err
		}
	}
	if c.NvmDir, err = absPath(c.NvmDir); err != nil {
		return c, err
	}
	if c.NodeVersion == "" {
		c.NodeVersion = DefaultNodeVersion
	}
	if err := ValidateNodeVersion(c.NodeVersion); err != nil {
		return c, err
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if strings.HasPrefix(c.OutputDir, "~") {
		if c.OutputDir, err = absPath(c.OutputDir); err != nil {
			return c, err
		}
	}
	if c.LockDir == "" {
		dir, err := cacheDir()
		if err != nil {
			return c, err
		}
		c.LockDir = filepath.Join(dir, "locks")
	}
	if c.LockDir, err = absPath(c.LockDir); err != nil {
		return c, err
	}
	return c, nil
}

// DefaultNvmDir is the nvm checkout vendored next to the running binary.
func DefaultNvmDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "nvm"), nil
}

// EnvConfig reads NODERUN_* overrides from the environment.
func EnvConfig() Config {
	c := Config{
		NvmDir:      os.Getenv("NODERUN_NVM_DIR"),
		NodeVersion: os.Getenv("NODERUN_NODE_VERSION"),
		OutputDir:   os.Getenv("NODERUN_OUTPUT_DIR"),
		LockDir:     os.Getenv("NODERUN_LOCK_DIR"),
	}
	if d, err := time.ParseDuration(envOrDefault("NODERUN_LOCK_WAIT", "0s")); err == nil {
		c.LockWait = d
	}
	return c
}

type projectFile struct {
	NodeVersion string `yaml:"node_version"`
	OutputDir   string `yaml:"output_dir"`
	NvmDir      string `yaml:"nvm_dir"`
}

// ReadProjectConfig loads .noderun.yaml from projectDir. A missing file is an
// empty Config. A relative nvm_dir is taken relative to projectDir.
func ReadProjectConfig(projectDir string) (Config, error) {
	var cfg Config
	root, err := absPath(projectDir)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(filepath.Join(root, ProjectConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return cfg, err
	}
	cfg.NodeVersion = strings.TrimSpace(pf.NodeVersion)
	cfg.OutputDir = strings.TrimSpace(pf.OutputDir)
	if nvm := strings.TrimSpace(pf.NvmDir); nvm != "" {
		if !filepath.IsAbs(nvm) && !strings.HasPrefix(nvm, "~") {
			nvm = filepath.Join(root, nvm)
		}
		cfg.NvmDir = nvm
	}
	return cfg, nil
}
