package milun

const defaultCommandCap = 1024

// DrawCommand is a single draw recorded during a frame callback.
type DrawCommand struct {
	Handle   Handle
	Position Vec2    // world-space center of the sprite
	Angle    float64 // degrees, clockwise on screen
	Layer    int     // higher layers draw on top
	Scale    Vec2
	Color    Color
	Seq      int // submission order within the frame
}

// DrawOptions are the optional parameters of Renderer.Draw. A nil
// *DrawOptions draws at angle 0 on layer 0.
type DrawOptions struct {
	// Angle is the rotation around the sprite center in degrees.
	Angle float64
	// Layer orders draws; higher layers draw on top.
	Layer int
	// LayerName, when non-empty, overrides Layer with a named layer
	// registered through SetLayer.
	LayerName string
	// ScaleX and ScaleY scale the sprite around its center. Zero means 1.
	ScaleX, ScaleY float64
	// Color tints the sprite; A is the opacity. The zero value draws the
	// sprite unmodified.
	Color Color
}

// drawQueue collects the commands of the current frame.
type drawQueue struct {
	commands []DrawCommand
	sortBuf  []DrawCommand
	seq      int
}

func newDrawQueue() drawQueue {
	return drawQueue{
		commands: make([]DrawCommand, 0, defaultCommandCap),
		sortBuf:  make([]DrawCommand, 0, defaultCommandCap),
	}
}

// push appends cmd, stamping its submission order.
func (q *drawQueue) push(cmd DrawCommand) {
	cmd.Seq = q.seq
	q.seq++
	q.commands = append(q.commands, cmd)
}

// reset empties the queue, keeping capacity.
func (q *drawQueue) reset() {
	q.commands = q.commands[:0]
	q.seq = 0
}

// commandLessOrEqual returns true if a should sort before or at the same
// position as b. Using <= for Seq keeps the sort stable.
func commandLessOrEqual(a, b *DrawCommand) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	return a.Seq <= b.Seq
}

// sort orders commands by (Layer, Seq) in place using sortBuf as scratch.
// Bottom-up merge sort: zero allocations once the buffer reaches its
// high-water mark.
func (q *drawQueue) sort() {
	n := len(q.commands)
	if n <= 1 {
		return
	}
	if cap(q.sortBuf) < n {
		q.sortBuf = make([]DrawCommand, n)
	}
	q.sortBuf = q.sortBuf[:n]

	a := q.commands
	b := q.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(q.commands, q.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
