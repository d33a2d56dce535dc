package model

import (
	"math"
	"testing"
)

// TestNewSiteStats verifies that a fresh SiteStats carries the -1 sentinels
// and empty collections.
func TestNewSiteStats(t *testing.T) {
	t.Parallel()

	s := NewSiteStats("example.com")

	if s.Hostname != "example.com" {
		t.Errorf("expected hostname 'example.com', got %q", s.Hostname)
	}
	if s.MinResponseTime != NoResponseTime || s.MaxResponseTime != NoResponseTime || s.AverageResponseTime != NoResponseTime {
		t.Errorf("expected all timing fields to be %v, got min=%v max=%v avg=%v",
			NoResponseTime, s.MinResponseTime, s.MaxResponseTime, s.AverageResponseTime)
	}
	if len(s.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(s.Pages))
	}
	if len(s.LinkedSites) != 0 {
		t.Errorf("expected no linked sites, got %d", len(s.LinkedSites))
	}
	if s.PagesFailed != 0 {
		t.Errorf("expected zero failed pages, got %d", s.PagesFailed)
	}
}

// TestSiteStatsRecordPage checks the running min/max update and the failed
// page accounting.
func TestSiteStatsRecordPage(t *testing.T) {
	t.Parallel()

	t.Run("successful pages update min and max", func(t *testing.T) {
		t.Parallel()

		s := NewSiteStats("example.com")
		s.RecordPage("example.com/", 40)
		s.RecordPage("example.com/a", 10)
		s.RecordPage("example.com/b", 70)

		if s.MinResponseTime != 10 {
			t.Errorf("expected min 10, got %v", s.MinResponseTime)
		}
		if s.MaxResponseTime != 70 {
			t.Errorf("expected max 70, got %v", s.MaxResponseTime)
		}
		if s.PagesFailed != 0 {
			t.Errorf("expected zero failed pages, got %d", s.PagesFailed)
		}
		if s.VisitedCount() != 3 {
			t.Errorf("expected 3 visited pages, got %d", s.VisitedCount())
		}
	})

	t.Run("failed page is recorded but excluded from aggregates", func(t *testing.T) {
		t.Parallel()

		s := NewSiteStats("example.com")
		s.RecordPage("example.com/", NoResponseTime)

		if s.PagesFailed != 1 {
			t.Errorf("expected 1 failed page, got %d", s.PagesFailed)
		}
		if len(s.Pages) != 1 {
			t.Fatalf("expected 1 page record, got %d", len(s.Pages))
		}
		if !s.Pages[0].Failed() {
			t.Error("expected the page record to be marked failed")
		}
		if s.MinResponseTime != NoResponseTime || s.MaxResponseTime != NoResponseTime {
			t.Errorf("expected min/max to stay at sentinel, got min=%v max=%v",
				s.MinResponseTime, s.MaxResponseTime)
		}
	})

	t.Run("connection failure has no page record", func(t *testing.T) {
		t.Parallel()

		s := NewSiteStats("example.com")
		s.RecordConnectionFailure()

		if s.PagesFailed != 1 {
			t.Errorf("expected 1 failed page, got %d", s.PagesFailed)
		}
		if len(s.Pages) != 0 {
			t.Errorf("expected no page records, got %d", len(s.Pages))
		}
	})
}

// TestSiteStatsFinalize verifies the average computation and its exclusion
// of failed pages.
func TestSiteStatsFinalize(t *testing.T) {
	t.Parallel()

	t.Run("average over successful pages only", func(t *testing.T) {
		t.Parallel()

		s := NewSiteStats("example.com")
		s.RecordPage("example.com/", 100)
		s.RecordPage("example.com/a", NoResponseTime)
		s.RecordPage("example.com/b", 200)
		s.Finalize()

		if math.Abs(s.AverageResponseTime-150) > 1e-9 {
			t.Errorf("expected average 150, got %v", s.AverageResponseTime)
		}
	})

	t.Run("all pages failed keeps sentinel", func(t *testing.T) {
		t.Parallel()

		s := NewSiteStats("example.com")
		s.RecordPage("example.com/", NoResponseTime)
		s.RecordConnectionFailure()
		s.Finalize()

		if s.AverageResponseTime != NoResponseTime {
			t.Errorf("expected average to stay at sentinel, got %v", s.AverageResponseTime)
		}
	})
}

// TestSiteStatsAddLinkedSite verifies external site deduplication.
func TestSiteStatsAddLinkedSite(t *testing.T) {
	t.Parallel()

	s := NewSiteStats("example.com")

	if !s.AddLinkedSite("other.org") {
		t.Error("expected first AddLinkedSite to return true")
	}
	if s.AddLinkedSite("other.org") {
		t.Error("expected duplicate AddLinkedSite to return false")
	}
	if !s.AddLinkedSite("another.net") {
		t.Error("expected new hostname to return true")
	}

	if len(s.LinkedSites) != 2 {
		t.Fatalf("expected 2 linked sites, got %d", len(s.LinkedSites))
	}
	if s.LinkedSites[0] != "other.org" || s.LinkedSites[1] != "another.net" {
		t.Errorf("expected first-seen order, got %v", s.LinkedSites)
	}
}
