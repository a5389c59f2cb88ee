// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordSpin(t *testing.T) {
	before := testutil.ToFloat64(SpinsTotal.WithLabelValues(SpinCooldown))
	RecordSpin(SpinCooldown, 0)
	if got := testutil.ToFloat64(SpinsTotal.WithLabelValues(SpinCooldown)); got != before+1 {
		t.Errorf("expected cooldown counter %v, got %v", before+1, got)
	}

	var m dto.Metric
	if err := SpinDuration.Write(&m); err != nil {
		t.Fatal(err)
	}
	countBefore := m.GetHistogram().GetSampleCount()

	RecordSpin(SpinSuccess, 5*time.Millisecond)

	m.Reset()
	if err := SpinDuration.Write(&m); err != nil {
		t.Fatal(err)
	}
	if got := m.GetHistogram().GetSampleCount(); got != countBefore+1 {
		t.Errorf("expected %d duration samples, got %d", countBefore+1, got)
	}
}

func TestRecordWent(t *testing.T) {
	changed := testutil.ToFloat64(WentMarked.WithLabelValues("true"))
	repeat := testutil.ToFloat64(WentMarked.WithLabelValues("false"))

	RecordWent(true)
	RecordWent(false)
	RecordWent(false)

	if got := testutil.ToFloat64(WentMarked.WithLabelValues("true")); got != changed+1 {
		t.Errorf("changed = %v, want %v", got, changed+1)
	}
	if got := testutil.ToFloat64(WentMarked.WithLabelValues("false")); got != repeat+2 {
		t.Errorf("unchanged = %v, want %v", got, repeat+2)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/randomize", "429"))
	RecordAPIRequest("GET", "/api/randomize", "429", 2*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/randomize", "429")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("expected %v after inc, got %v", before+1, got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("expected %v after dec, got %v", before, got)
	}
}

func TestRecordPlacesRequest(t *testing.T) {
	okBefore := testutil.ToFloat64(PlacesRequests.WithLabelValues("search", "success"))
	errBefore := testutil.ToFloat64(PlacesRequests.WithLabelValues("search", "error"))

	RecordPlacesRequest("search", time.Millisecond, nil)
	RecordPlacesRequest("search", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(PlacesRequests.WithLabelValues("search", "success")); got != okBefore+1 {
		t.Errorf("success = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(PlacesRequests.WithLabelValues("search", "error")); got != errBefore+1 {
		t.Errorf("error = %v, want %v", got, errBefore+1)
	}
}

func TestRecordBackup(t *testing.T) {
	before := testutil.ToFloat64(BackupsTotal.WithLabelValues("backup", "success"))
	RecordBackup("backup", nil)
	if got := testutil.ToFloat64(BackupsTotal.WithLabelValues("backup", "success")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
	if testutil.ToFloat64(BackupLastSuccess) == 0 {
		t.Error("expected last success timestamp to be set")
	}

	failed := testutil.ToFloat64(BackupsTotal.WithLabelValues("restore", "error"))
	RecordBackup("restore", errors.New("missing file"))
	if got := testutil.ToFloat64(BackupsTotal.WithLabelValues("restore", "error")); got != failed+1 {
		t.Errorf("expected %v, got %v", failed+1, got)
	}
}
