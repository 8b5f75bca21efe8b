package detector

import "math"

// alignMark is a located alignment pattern center.
type alignMark struct {
	x, y float64
}

// searchAlignment scans a window around the estimated position for the
// 1:1:1 alignment ratio. factor scales the window in modules.
func (d *Detector) searchAlignment(moduleSize float64, estX, estY int, factor float64) *alignMark {
	allowance := int(factor * moduleSize)
	left := max(0, estX-allowance)
	top := max(0, estY-allowance)
	right := min(d.mask.Width()-1, estX+allowance)
	bottom := min(d.mask.Height()-1, estY+allowance)

	width := right - left
	height := bottom - top
	if width < 0 || height < 0 {
		return nil
	}
	return d.scanAlignment(left, top, width, height, moduleSize)
}

// scanAlignment walks rows outward from the window center looking for a
// dark-light-dark run of one module each.
func (d *Detector) scanAlignment(startX, startY, width, height int, moduleSize float64) *alignMark {
	middleY := startY + height/2
	for dy := 0; dy < height; dy++ {
		y := middleY
		if dy%2 == 0 {
			y += (dy + 1) / 2
		} else {
			y -= (dy + 1) / 2
		}
		if y < startY || y >= startY+height {
			continue
		}

		var runs [3]int
		state := 0
		for x := startX; x < startX+width; x++ {
			if d.mask.Get(x, y) {
				if state == 1 {
					state = 2
				}
				runs[state]++
				continue
			}
			if state == 2 {
				if alignRatio(runs, moduleSize) {
					if m := d.confirmAlignment(runs, x, y, moduleSize); m != nil {
						return m
					}
				}
				runs[0], runs[1], runs[2] = runs[2], 1, 0
				state = 1
				continue
			}
			state++
			runs[state]++
		}
		if state == 2 && alignRatio(runs, moduleSize) {
			if m := d.confirmAlignment(runs, startX+width, y, moduleSize); m != nil {
				return m
			}
		}
	}
	return nil
}

func (d *Detector) confirmAlignment(runs [3]int, endX, y int, moduleSize float64) *alignMark {
	centerX := float64(endX) - float64(runs[2]) - float64(runs[1])/2.0
	centerY := d.vCheckAlignment(int(centerX), y, 2*runs[1], moduleSize)
	if math.IsNaN(centerY) {
		return nil
	}
	return &alignMark{x: centerX, y: centerY}
}

func alignRatio(runs [3]int, moduleSize float64) bool {
	tolerance := moduleSize / 2.0
	for _, r := range runs {
		if math.Abs(float64(r)-moduleSize) >= tolerance {
			return false
		}
	}
	return true
}

// vCheckAlignment re-measures the run vertically through a horizontal
// hit and returns the refined center row, or NaN.
func (d *Detector) vCheckAlignment(centerX, startY, maxCount int, moduleSize float64) float64 {
	maxY := d.mask.Height()
	var runs [3]int

	y := startY
	for y >= 0 && d.mask.Get(centerX, y) && runs[1] <= maxCount {
		runs[1]++
		y--
	}
	if y < 0 || runs[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && !d.mask.Get(centerX, y) && runs[0] <= maxCount {
		runs[0]++
		y--
	}
	if runs[0] > maxCount {
		return math.NaN()
	}

	y = startY + 1
	for y < maxY && d.mask.Get(centerX, y) && runs[1] <= maxCount {
		runs[1]++
		y++
	}
	if y == maxY || runs[1] > maxCount {
		return math.NaN()
	}
	for y < maxY && !d.mask.Get(centerX, y) && runs[2] <= maxCount {
		runs[2]++
		y++
	}
	if runs[2] > maxCount {
		return math.NaN()
	}

	total := runs[0] + runs[1] + runs[2]
	if 5*iabs(total-int(moduleSize*3)) >= int(moduleSize*3) {
		return math.NaN()
	}
	return float64(y-runs[2]) - float64(runs[1])/2.0
}
