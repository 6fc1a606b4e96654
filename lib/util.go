package lib

import (
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	homedir "github.com/mitchellh/go-homedir"
)

func envOrDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func init() {
	log.SetHandler(cli.New(os.Stderr))
	level, err := log.ParseLevel(envOrDefault("NODERUN_LOG", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// cacheDir mirrors where nd keeps its cache: ~/Library/Caches on darwin,
// ~/.cache everywhere else.
func cacheDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "darwin" {
		return path.Join(home, "Library", "Caches", "noderun"), nil
	}
	return path.Join(home, ".cache", "noderun"), nil
}

// absPath expands a leading ~ and makes p absolute.
func absPath(p string) (string, error) {
	p, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func pathExists(p string) (bool, error) {
	if _, err := os.Lstat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
