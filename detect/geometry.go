package detect

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"colorvision/frame"
)

// parseViewport reads "left,top,right,bottom".
func parseViewport(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid viewport %q, should be left,top,right,bottom", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid viewport %q: %w", s, err)
		}
		v[i] = n
	}

	vp := frame.Viewport(v[0], v[1], v[2], v[3])
	if vp.Empty() {
		return image.Rectangle{}, fmt.Errorf("viewport %q is empty", s)
	}
	return vp, nil
}

// parseSize reads "WxH".
func parseSize(s string) (int, int, error) {
	var w, h int
	n, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read size %q: %w", s, err)
	} else if n < 2 {
		return 0, 0, fmt.Errorf("insufficient size fields in %q: %d", s, n)
	}

	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, both dimensions must be positive", s)
	}
	return w, h, nil
}
