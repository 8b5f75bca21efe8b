package detector

import "math"

// candidate is a possible finder pattern center accumulated over scan
// rows.
type candidate struct {
	x, y  float64
	pitch float64
	hits  int
}

// corners holds the three ordered finder centers.
type corners struct {
	bottomLeft, topLeft, topRight candidate
}

// locateFinders scans rows for the 1:1:3:1:1 finder ratio, cross
// checking hits vertically and merging nearby centers.
func (d *Detector) locateFinders() (*corners, error) {
	height := d.mask.Height()
	width := d.mask.Width()

	// Sparse rows are enough for a well sized symbol; harder scans
	// visit every row.
	skip := (3 * height) / (4 * 97)
	if skip < 3 {
		skip = 3
	}
	if d.tryHarder {
		skip = 1
	}

	var centers []candidate

	for y := skip - 1; y < height; y += skip {
		var runs [5]int
		state := 0
		for x := 0; x < width; x++ {
			if d.mask.Get(x, y) {
				if state&1 == 1 {
					state++
				}
				runs[state]++
				continue
			}
			if state&1 == 1 {
				runs[state]++
				continue
			}
			if state != 4 {
				state++
				runs[state]++
				continue
			}
			if finderRatio(runs) && d.recordCenter(runs, y, x, &centers) {
				if best := pickThree(centers); best != nil && best.confirmed() {
					return best, nil
				}
			}
			// Shift the window by one dark-light pair and keep going.
			runs[0], runs[1], runs[2] = runs[2], runs[3], runs[4]
			runs[3], runs[4] = 1, 0
			state = 3
		}
		if state == 4 && finderRatio(runs) {
			d.recordCenter(runs, y, width, &centers)
		}
	}

	best := pickThree(centers)
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

// finderRatio reports whether five run lengths fit 1:1:3:1:1 within
// half a module of tolerance.
func finderRatio(runs [5]int) bool {
	total := 0
	for _, r := range runs {
		if r == 0 {
			return false
		}
		total += r
	}
	if total < 7 {
		return false
	}
	pitch := float64(total) / 7.0
	tolerance := pitch / 2.0
	return math.Abs(pitch-float64(runs[0])) < tolerance &&
		math.Abs(pitch-float64(runs[1])) < tolerance &&
		math.Abs(3*pitch-float64(runs[2])) < 3*tolerance &&
		math.Abs(pitch-float64(runs[3])) < tolerance &&
		math.Abs(pitch-float64(runs[4])) < tolerance
}

// recordCenter cross checks a horizontal hit vertically and either
// merges it into a nearby candidate or starts a new one. It reports
// whether the hit confirmed an existing candidate.
func (d *Detector) recordCenter(runs [5]int, y, endX int, centers *[]candidate) bool {
	total := runs[0] + runs[1] + runs[2] + runs[3] + runs[4]
	centerX := float64(endX) - float64(runs[4]+runs[3]) - float64(runs[2])/2.0
	centerY := d.vCheckFinder(y, int(centerX), runs[2], total)
	if math.IsNaN(centerY) {
		return false
	}

	pitch := float64(total) / 7.0
	for i := range *centers {
		c := &(*centers)[i]
		if c.absorbs(pitch, centerX, centerY) {
			c.merge(centerX, centerY, pitch)
			return true
		}
	}
	*centers = append(*centers, candidate{x: centerX, y: centerY, pitch: pitch, hits: 1})
	return false
}

func (c *candidate) absorbs(pitch, x, y float64) bool {
	if math.Abs(x-c.x) > pitch || math.Abs(y-c.y) > pitch {
		return false
	}
	diff := math.Abs(pitch - c.pitch)
	return diff <= 1.0 || diff <= c.pitch
}

func (c *candidate) merge(x, y, pitch float64) {
	n := float64(c.hits)
	c.x = (n*c.x + x) / (n + 1)
	c.y = (n*c.y + y) / (n + 1)
	c.pitch = (n*c.pitch + pitch) / (n + 1)
	c.hits++
}

// vCheckFinder re-measures the ratio along the column through a
// horizontal hit and returns the refined center row, or NaN.
func (d *Detector) vCheckFinder(startY, centerX, maxCount, originalTotal int) float64 {
	maxY := d.mask.Height()
	var runs [5]int

	y := startY
	for y >= 0 && d.mask.Get(centerX, y) {
		runs[2]++
		y--
	}
	if y < 0 {
		return math.NaN()
	}
	for y >= 0 && !d.mask.Get(centerX, y) && runs[1] <= maxCount {
		runs[1]++
		y--
	}
	if y < 0 || runs[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && d.mask.Get(centerX, y) && runs[0] <= maxCount {
		runs[0]++
		y--
	}
	if runs[0] > maxCount {
		return math.NaN()
	}

	y = startY + 1
	for y < maxY && d.mask.Get(centerX, y) {
		runs[2]++
		y++
	}
	if y == maxY {
		return math.NaN()
	}
	for y < maxY && !d.mask.Get(centerX, y) && runs[3] <= maxCount {
		runs[3]++
		y++
	}
	if y == maxY || runs[3] > maxCount {
		return math.NaN()
	}
	for y < maxY && d.mask.Get(centerX, y) && runs[4] <= maxCount {
		runs[4]++
		y++
	}
	if runs[4] > maxCount {
		return math.NaN()
	}

	total := runs[0] + runs[1] + runs[2] + runs[3] + runs[4]
	if 5*iabs(total-originalTotal) >= 2*originalTotal {
		return math.NaN()
	}
	if !finderRatio(runs) {
		return math.NaN()
	}
	return float64(y-runs[4]-runs[3]) - float64(runs[2])/2.0
}

// pickThree searches every triple of candidates for the best scoring
// one that could actually be the three corners of a symbol. Triples
// that fail the mutual geometry checks are discarded, so three hits on
// one scan row can never masquerade as a symbol.
func pickThree(centers []candidate) *corners {
	var best *corners
	bestScore := math.Inf(-1)
	for i := 0; i < len(centers); i++ {
		for j := i + 1; j < len(centers); j++ {
			for k := j + 1; k < len(centers); k++ {
				c := orderCorners([]candidate{centers[i], centers[j], centers[k]})
				score, ok := tripleScore(c)
				if ok && score > bestScore {
					bestScore, best = score, c
				}
			}
		}
	}
	return best
}

// tripleScore rates an ordered triple. Geometry no symbol can have is
// rejected outright: module pitches that disagree, short sides of very
// different length, sides shorter than half the minimum finder
// separation, or a corner angle far from a right angle. Among the
// survivors, row-confirmed candidates win, with pitch spread, angle
// error and side mismatch breaking ties.
func tripleScore(c *corners) (float64, bool) {
	avg := (c.topLeft.pitch + c.topRight.pitch + c.bottomLeft.pitch) / 3
	dev := 0.0
	for _, p := range [3]float64{c.topLeft.pitch, c.topRight.pitch, c.bottomLeft.pitch} {
		d := math.Abs(p - avg)
		if d > 0.5*avg {
			return 0, false
		}
		dev += d
	}
	dev /= avg

	a := dist(c.topLeft, c.topRight)
	b := dist(c.topLeft, c.bottomLeft)
	// Finder centers of the smallest symbol sit 14 modules apart.
	if a < 7*avg || b < 7*avg {
		return 0, false
	}
	longer, shorter := a, b
	if b > a {
		longer, shorter = b, a
	}
	if longer > 1.5*shorter {
		return 0, false
	}

	cos := ((c.topRight.x-c.topLeft.x)*(c.bottomLeft.x-c.topLeft.x) +
		(c.topRight.y-c.topLeft.y)*(c.bottomLeft.y-c.topLeft.y)) / (a * b)
	if math.Abs(cos) > 0.5 {
		return 0, false
	}

	hits := c.topLeft.hits + c.topRight.hits + c.bottomLeft.hits
	return float64(hits) - dev - 2*math.Abs(cos) - (longer/shorter - 1), true
}

// confirmed reports whether every corner was seen on at least two scan
// rows.
func (c *corners) confirmed() bool {
	return c.topLeft.hits >= 2 && c.topRight.hits >= 2 && c.bottomLeft.hits >= 2
}

// orderCorners labels three centers by their roles. The hypotenuse
// joins bottom left to top right, and the cross product settles which
// side each sits on.
func orderCorners(p []candidate) *corners {
	d01 := dist(p[0], p[1])
	d12 := dist(p[1], p[2])
	d02 := dist(p[0], p[2])

	var topLeft, b, c candidate
	switch {
	case d12 >= d01 && d12 >= d02:
		topLeft, b, c = p[0], p[1], p[2]
	case d02 >= d01 && d02 >= d12:
		topLeft, b, c = p[1], p[0], p[2]
	default:
		topLeft, b, c = p[2], p[0], p[1]
	}

	if (c.x-topLeft.x)*(b.y-topLeft.y)-(c.y-topLeft.y)*(b.x-topLeft.x) < 0 {
		b, c = c, b
	}
	return &corners{bottomLeft: b, topLeft: topLeft, topRight: c}
}
