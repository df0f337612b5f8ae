package paging

// Window is a contiguous run of page numbers shown for orientation.
// Page numbers are display-only; navigation happens through Next and Previous.
type Window struct {
	Start   int
	End     int
	Current int
	Total   int
}

// Empty reports whether the window holds no pages.
func (w Window) Empty() bool {
	return w.Total == 0
}

// Pages returns the page numbers from Start to End inclusive.
func (w Window) Pages() []int {
	if w.Empty() {
		return nil
	}
	pages := make([]int, 0, w.End-w.Start+1)
	for i := w.Start; i <= w.End; i++ {
		pages = append(pages, i)
	}
	return pages
}

// LeadingEllipsis reports whether pages exist before the window.
func (w Window) LeadingEllipsis() bool {
	return !w.Empty() && w.Start > 1
}

// TrailingEllipsis reports whether pages exist after the window.
func (w Window) TrailingEllipsis() bool {
	return !w.Empty() && w.End < w.Total
}
