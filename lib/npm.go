package lib

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/apex/log"
)

const manifestName = "package.json"

type PJSON struct {
	Name            string             `json:"name"`
	Version         string             `json:"version"`
	Scripts         map[string]string  `json:"scripts"`
	Dependencies    map[string]string  `json:"dependencies"`
	DevDependencies *map[string]string `json:"devDependencies"`
	Engines         map[string]string  `json:"engines"`
}

func MustParsePackage(root string) *PJSON {
	pkg, err := ParsePackage(root)
	must(err)
	return pkg
}

func ParsePackage(root string) (*PJSON, error) {
	p := path.Join(root, manifestName)
	log.Debugf("ParsePackage %s", p)
	file, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var pkg PJSON
	if err := json.NewDecoder(file).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return &pkg, nil
}

// nvm accepts these in place of a version number.
var nodeAliases = map[string]bool{
	"node":   true,
	"stable": true,
	"latest": true,
}

func isNodeAlias(v string) bool {
	return nodeAliases[v] || strings.HasPrefix(v, "lts/")
}

// ValidateNodeVersion accepts anything `nvm install` understands: a full or
// partial semver with optional leading v, or an alias like lts/*.
func ValidateNodeVersion(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	if isNodeAlias(v) {
		return nil
	}
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidVersion, v, err)
	}
	return nil
}

// CheckEngines reports whether nodeVersion satisfies engines.node. Aliases
// can't be checked and always pass.
func CheckEngines(pkg *PJSON, nodeVersion string) error {
	want := strings.TrimSpace(pkg.Engines["node"])
	if want == "" || isNodeAlias(nodeVersion) {
		return nil
	}
	c, err := semver.NewConstraint(want)
	if err != nil {
		return fmt.Errorf("engines.node %q: %w", want, err)
	}
	v, err := semver.NewVersion(nodeVersion)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidVersion, nodeVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("node %s does not satisfy engines.node %q", v, want)
	}
	return nil
}
