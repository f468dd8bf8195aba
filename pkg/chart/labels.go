package chart

import (
	"sort"
	"unicode/utf8"

	"github.com/jplusplus/nwcharts/pkg/render"
)

// labelRequest is a point to label, in pixels from the lower left corner of
// the plotting area.
type labelRequest struct {
	X, Y          float64
	Width, Height float64
	Highlight     bool
}

type box struct {
	x0, y0, x1, y1 float64
}

func (a box) overlaps(b box) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

func (a box) inside(b box) bool {
	return a.x0 >= b.x0 && a.x1 <= b.x1 && a.y0 >= b.y0 && a.y1 <= b.y1
}

var labelDirections = []string{render.Right, render.Left, render.Up, render.Down}

// labelBox is the area covered by a label placed in dir.
func labelBox(r labelRequest, dir string, offset float64) box {
	w, h := r.Width, r.Height
	switch dir {
	case render.Left:
		return box{r.X - offset - w, r.Y - h/2, r.X - offset, r.Y + h/2}
	case render.Up:
		return box{r.X - w/2, r.Y + offset, r.X + w/2, r.Y + offset + h}
	case render.Down:
		return box{r.X - w/2, r.Y - offset - h, r.X + w/2, r.Y - offset}
	default:
		return box{r.X + offset, r.Y - h/2, r.X + offset + w, r.Y + h/2}
	}
}

// placeLabels picks a direction for each label so that labels neither
// overlap each other nor the points, nor leave bounds. Highlighted labels
// are placed first and always get a direction, falling back to the first
// candidate. Other labels that do not fit get "".
func placeLabels(reqs []labelRequest, bounds box, offset, pointRadius float64) []string {
	out := make([]string, len(reqs))
	order := make([]int, len(reqs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return reqs[order[a]].Highlight && !reqs[order[b]].Highlight
	})

	var taken []box
	for _, r := range reqs {
		taken = append(taken, box{r.X - pointRadius, r.Y - pointRadius, r.X + pointRadius, r.Y + pointRadius})
	}

	for _, i := range order {
		r := reqs[i]
		for _, dir := range labelDirections {
			lb := labelBox(r, dir, offset)
			if !lb.inside(bounds) || overlapsAny(lb, taken) {
				continue
			}
			out[i] = dir
			taken = append(taken, lb)
			break
		}
		if out[i] == "" && r.Highlight {
			out[i] = labelDirections[0]
			taken = append(taken, labelBox(r, out[i], offset))
		}
	}
	return out
}

func overlapsAny(b box, boxes []box) bool {
	for _, o := range boxes {
		if b.overlaps(o) {
			return true
		}
	}
	return false
}

// textWidth estimates the width of s in points at the given font size.
func textWidth(s string, size float64) float64 {
	return 0.55 * size * float64(utf8.RuneCountInString(s))
}
