package store

import (
	"testing"
	"time"

	"github.com/tkarimov/cryptostats/internal/model"
)

func window(t *testing.T, start, end string) model.TimeWindow {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatalf("parse window start %q: %v", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatalf("parse window end %q: %v", end, err)
	}
	return model.TimeWindow{Start: s.UTC(), End: e.UTC()}
}

func windowTimes(start, end time.Time) model.TimeWindow {
	return model.TimeWindow{Start: start, End: end}
}
