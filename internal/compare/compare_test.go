package compare

import (
	"testing"

	"github.com/JiHoon-0330/ebook-pdf/internal/phash"
)

func TestFirstFrameIsAlwaysNew(t *testing.T) {
	c := NewComparator()
	if v := c.Compare(nil, phash.Pair{Full: 0xDEADBEEF, ROI: 0xDEADBEEF}); v != VerdictNew {
		t.Errorf("first frame verdict = %v, want new", v)
	}
}

func TestIdenticalPairIsDuplicate(t *testing.T) {
	c := NewComparator()
	p := phash.Pair{Full: 0x0123456789ABCDEF, ROI: 0xFEDCBA9876543210}
	if v := c.Compare(&p, p); v != VerdictDuplicate {
		t.Errorf("identical pair verdict = %v, want duplicate", v)
	}
}

func TestFullThresholdBoundary(t *testing.T) {
	cases := []struct {
		name      string
		threshold int
		bitsMoved int
		want      Verdict
	}{
		{"below threshold", 3, 2, VerdictDuplicate},
		{"at threshold", 3, 3, VerdictDuplicate},
		{"just above threshold", 3, 4, VerdictNew},
		{"zero threshold exact match", 0, 0, VerdictDuplicate},
		{"zero threshold one bit", 0, 1, VerdictNew},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Comparator{FullThreshold: tc.threshold, ROIThreshold: 64}
			prev := phash.Pair{Full: 0}
			cur := phash.Pair{Full: phash.Fingerprint(1<<tc.bitsMoved) - 1}
			if v := c.Compare(&prev, cur); v != tc.want {
				t.Errorf("%d bits moved with T1=%d: verdict = %v, want %v",
					tc.bitsMoved, tc.threshold, v, tc.want)
			}
		})
	}
}

func TestROIOverridesTentativeDuplicate(t *testing.T) {
	c := &Comparator{FullThreshold: 3, ROIThreshold: 1}

	// Full frames identical, footer strip moved past T2: the page number
	// changed on an otherwise blank page.
	prev := phash.Pair{Full: 0xAAAA, ROI: 0}
	cur := phash.Pair{Full: 0xAAAA, ROI: 0b111}
	if v := c.Compare(&prev, cur); v != VerdictNew {
		t.Errorf("ROI moved 3 bits with T2=1: verdict = %v, want new", v)
	}

	// ROI within T2 keeps the duplicate verdict.
	cur = phash.Pair{Full: 0xAAAA, ROI: 0b1}
	if v := c.Compare(&prev, cur); v != VerdictDuplicate {
		t.Errorf("ROI moved 1 bit with T2=1: verdict = %v, want duplicate", v)
	}
}

func TestDistantFramesSkipROICheck(t *testing.T) {
	c := &Comparator{FullThreshold: 3, ROIThreshold: 1}

	// Full distance far above T1: new regardless of identical ROI.
	prev := phash.Pair{Full: 0, ROI: 0x55}
	cur := phash.Pair{Full: 0xFFFFFFFF, ROI: 0x55}
	if v := c.Compare(&prev, cur); v != VerdictNew {
		t.Errorf("distant frames verdict = %v, want new", v)
	}
}
