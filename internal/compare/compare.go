package compare

import (
	"github.com/JiHoon-0330/ebook-pdf/internal/phash"
)

// Verdict is the comparator's judgement of two consecutive captures.
type Verdict int

const (
	// VerdictNew means the current capture shows a page not seen in the
	// previous capture.
	VerdictNew Verdict = iota
	// VerdictDuplicate means the current capture shows the same page as
	// the previous capture.
	VerdictDuplicate
)

func (v Verdict) String() string {
	if v == VerdictDuplicate {
		return "duplicate"
	}
	return "new"
}

const (
	DefaultFullThreshold = 3
	DefaultROIThreshold  = 1
)

// Comparator judges whether two fingerprint pairs show the same page.
//
// FullThreshold is the maximum full-frame Hamming distance still considered
// a duplicate. ROIThreshold is the tighter bound applied to the ROI
// fingerprints of a tentative duplicate: a footer that moved more than this
// overrides the verdict back to new, which catches page-number changes on
// pages whose bulk is whitespace.
type Comparator struct {
	FullThreshold int
	ROIThreshold  int
}

// NewComparator returns a Comparator with the default thresholds.
func NewComparator() *Comparator {
	return &Comparator{
		FullThreshold: DefaultFullThreshold,
		ROIThreshold:  DefaultROIThreshold,
	}
}

// Compare judges cur against prev. A nil prev means cur is the first frame
// of a run and is always new.
func (c *Comparator) Compare(prev *phash.Pair, cur phash.Pair) Verdict {
	if prev == nil {
		return VerdictNew
	}

	if prev.Full.Distance(cur.Full) > c.FullThreshold {
		return VerdictNew
	}
	// Tentative duplicate. A page whose bulk is whitespace can keep an
	// identical full-frame fingerprint while its page number advances, so
	// the ROI strip gets the final word.
	if prev.ROI.Distance(cur.ROI) > c.ROIThreshold {
		return VerdictNew
	}
	return VerdictDuplicate
}
