package lib

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Flavor is the build toolchain a project uses. It decides which npm
// invocation runs for build and dev.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorVite
	FlavorCRA
)

func (f Flavor) String() string {
	switch f {
	case FlavorVite:
		return "vite"
	case FlavorCRA:
		return "cra"
	default:
		return "unknown"
	}
}

// ClassifyScripts looks at the dev and build scripts only. vite is checked
// before react-scripts.
func ClassifyScripts(scripts map[string]string) Flavor {
	dev, build := scripts["dev"], scripts["build"]
	switch {
	case strings.Contains(dev, "vite") || strings.Contains(build, "vite"):
		return FlavorVite
	case strings.Contains(dev, "react-scripts") || strings.Contains(build, "react-scripts"):
		return FlavorCRA
	default:
		return FlavorUnknown
	}
}

// DetectFlavor classifies the project at root. A missing package.json is
// FlavorUnknown with no error; an unreadable one is FlavorUnknown wrapped
// in ErrManifest.
func DetectFlavor(root string) (Flavor, error) {
	flavor, _, err := detectManifest(root)
	return flavor, err
}

func detectManifest(root string) (Flavor, *PJSON, error) {
	pkg, err := ParsePackage(root)
	if errors.Is(err, fs.ErrNotExist) {
		return FlavorUnknown, nil, nil
	}
	if err != nil {
		return FlavorUnknown, nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	return ClassifyScripts(pkg.Scripts), pkg, nil
}

// Template is a scaffolding generator.
type Template string

const (
	TemplateCRA  Template = "cra"
	TemplateVite Template = "vite"
)

func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case TemplateCRA, TemplateVite:
		return t, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidTemplate, s)
}
