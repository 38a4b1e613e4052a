package milun

import (
	"image"
	"sort"
)

// atlasPadding is the transparent gap kept between packed sprites so linear
// filtering never samples a neighbor.
const atlasPadding = 1

// packNode is a node of a binary-tree (guillotine) rectangle packer. A leaf
// either holds one image or is free space.
type packNode struct {
	rect        image.Rectangle
	used        bool
	left, right *packNode
}

// insert places a w x h box in the subtree and returns its top-left corner.
func (n *packNode) insert(w, h int) (image.Point, bool) {
	if n.left != nil {
		if p, ok := n.left.insert(w, h); ok {
			return p, true
		}
		return n.right.insert(w, h)
	}
	if n.used || w > n.rect.Dx() || h > n.rect.Dy() {
		return image.Point{}, false
	}

	n.used = true
	origin := n.rect.Min
	dx := n.rect.Dx() - w
	dy := n.rect.Dy() - h

	// Split along the axis with more leftover space so the larger free
	// rectangle stays whole.
	if dx > dy {
		n.left = &packNode{rect: image.Rect(origin.X, origin.Y+h, origin.X+w, n.rect.Max.Y)}
		n.right = &packNode{rect: image.Rect(origin.X+w, origin.Y, n.rect.Max.X, n.rect.Max.Y)}
	} else {
		n.left = &packNode{rect: image.Rect(origin.X+w, origin.Y, n.rect.Max.X, origin.Y+h)}
		n.right = &packNode{rect: image.Rect(origin.X, origin.Y+h, n.rect.Max.X, n.rect.Max.Y)}
	}
	return origin, true
}

// packPlacement is where one image landed.
type packPlacement struct {
	page int
	at   image.Point
}

// packResult is the output of packRects.
type packResult struct {
	placements []packPlacement // indexed like the input sizes
	pageSizes  []image.Point   // used extent of each page
}

// packRects distributes boxes of the given sizes over as few pages of at most
// maxSize x maxSize as the greedy packer manages. Boxes are inserted largest
// side first; a box larger than maxSize gets a page of its own.
func packRects(sizes []image.Point, maxSize int) packResult {
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := sizes[order[i]], sizes[order[j]]
		if a.X != b.X {
			return a.X > b.X
		}
		return a.Y > b.Y
	})

	res := packResult{placements: make([]packPlacement, len(sizes))}
	var roots []*packNode

	for _, idx := range order {
		w := sizes[idx].X + atlasPadding
		h := sizes[idx].Y + atlasPadding

		placed := false
		for page, root := range roots {
			if at, ok := root.insert(w, h); ok {
				res.placements[idx] = packPlacement{page: page, at: at}
				res.grow(page, at, sizes[idx])
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		side := maxSize
		if w > side {
			side = w
		}
		if h > side {
			side = h
		}
		root := &packNode{rect: image.Rect(0, 0, side, side)}
		roots = append(roots, root)
		res.pageSizes = append(res.pageSizes, image.Point{})
		page := len(roots) - 1
		at, _ := root.insert(w, h)
		res.placements[idx] = packPlacement{page: page, at: at}
		res.grow(page, at, sizes[idx])
	}
	return res
}

func (r *packResult) grow(page int, at, size image.Point) {
	ext := at.Add(size)
	if ext.X > r.pageSizes[page].X {
		r.pageSizes[page].X = ext.X
	}
	if ext.Y > r.pageSizes[page].Y {
		r.pageSizes[page].Y = ext.Y
	}
}
