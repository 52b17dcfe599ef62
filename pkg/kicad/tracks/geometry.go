package tracks

// parallel reports whether two direction vectors are parallel. The axis
// aligned cases are decided without arithmetic; the general case uses the
// int64 cross product, which is exact for board-sized coordinates.
func parallel(dx1, dy1, dx2, dy2 int64) bool {
	switch {
	case dx1 == 0 && dx2 == 0:
		return true
	case dy1 == 0 && dy2 == 0:
		return true
	case dx1 == 0 || dx2 == 0 || dy1 == 0 || dy2 == 0:
		return false
	}
	return dy1*dx2 == dx1*dy2
}

// collinearTraces reports whether two traces lie on the same line.
func collinearTraces(a, b *Item) bool {
	return parallel(a.end.X-a.start.X, a.end.Y-a.start.Y,
		b.end.X-b.start.X, b.end.Y-b.start.Y)
}

// pointOnSegment reports whether p lies on the closed segment from a to
// b, assuming p is already known to be on the segment's carrier line.
func pointOnSegment(p, a, b Point) bool {
	if a.X != b.X {
		return min64(a.X, b.X) <= p.X && p.X <= max64(a.X, b.X)
	}
	return min64(a.Y, b.Y) <= p.Y && p.Y <= max64(a.Y, b.Y)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
