package milun

import "time"

// flush rasterizes the draw queue into the back buffer.
//
// Pending sprite pages are uploaded first, then the canvas is cleared with
// the background color (unless it is nil), the queue is stably sorted by
// (Layer, Seq), and every command is drawn through
// view * world * region-local. Culled commands stay in the batch handed to
// flush observers.
func (r *Renderer) flush() (FrameStats, error) {
	var stats FrameStats

	if err := r.store.upload(r.platform); err != nil {
		return stats, err
	}

	canvas := r.platform.Canvas()
	if r.background != nil {
		canvas.Fill(r.background)
	}

	t0 := time.Now()
	r.queue.sort()
	stats.SortTime = time.Since(t0)

	t1 := time.Now()
	cmds := r.queue.commands
	stats.Commands = len(cmds)

	view := r.camera.computeViewMatrix()
	cull := r.camera.CullEnabled
	var visible Rect
	if cull {
		visible = r.camera.VisibleBounds()
	}

	lastPage := -1
	for i := range cmds {
		cmd := &cmds[i]
		sp := &r.store.sprites[cmd.Handle]
		w, h := float64(sp.Width), float64(sp.Height)

		world := spriteTransform(cmd.Position, cmd.Angle, cmd.Scale, w, h)
		if cull && !worldAABB(world, w, h).Intersects(visible) {
			stats.Culled++
			continue
		}

		region := sp.Region
		if region.Page != lastPage {
			stats.PageSwitches++
			lastPage = region.Page
		}
		geo := multiplyAffine(view, multiplyAffine(world, region.localMatrix()))
		canvas.DrawTexture(r.store.pages[region.Page].tex, region.sourceRect(), geo,
			cmd.Color.premultiplied(), r.cfg.Filter)
		stats.Drawn++
	}
	stats.FlushTime = time.Since(t1)

	for _, fn := range r.flushObservers {
		fn(r.frame, cmds)
	}
	return stats, nil
}
