package sfx

import (
	"io"

	"github.com/llehouerou/soundfx/internal/resource"
)

func openSound(b resource.Bundle, name string) (io.ReadCloser, error) {
	if b == nil {
		return nil, resource.ErrNotFound
	}
	return b.Open(name)
}

func bundleLabel(b resource.Bundle) string {
	if b == nil {
		return ""
	}
	return b.String()
}
