package rtdb

import (
	"fmt"
	"strings"
)

// Path addresses either a whole root ("orders") or one child ("orders/abc").
type Path struct {
	Root  string
	Child string
}

func ParsePath(p string) (Path, error) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return Path{Root: parts[0]}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return Path{Root: parts[0], Child: parts[1]}, nil
	}
	return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, p)
}

func (p Path) IsRoot() bool { return p.Child == "" }

func (p Path) String() string {
	if p.IsRoot() {
		return p.Root
	}
	return p.Root + "/" + p.Child
}
