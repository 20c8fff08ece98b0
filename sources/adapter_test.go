package sources

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"railstatus/engine"
	"railstatus/fetch"
	"railstatus/models"
	"railstatus/useragent"
)

const ntesFixture = `<html><head><title>NTES</title></head><body>
<span id="lblTrainName">12951 Mumbai Rajdhani</span>
<span id="lblRunningStatus">Running Late</span>
<span id="lblLastLocation">Ratlam Jn</span>
<span id="lblDelay">Delayed by 25 min</span>
<span class="station-code">NDLS</span>
<span class="station-code">KOTA</span>
<span class="station-code">BCT</span>
</body></html>`

func testAdapter(t *testing.T, profile Profile) *Adapter {
	t.Helper()
	client := fetch.NewClient(2 * time.Second)
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	retrier := &engine.Retrier{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		BackoffMax:  4 * time.Millisecond,
		ConnWait:    time.Millisecond,
	}
	a := New(profile, client, useragent.New(nil, false), retrier, time.FixedZone("IST", 5*3600+30*60))
	a.now = func() time.Time { return time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC) }
	return a
}

func TestAdapterFetchFullPage(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusOK, ntesFixture))

	record, err := a.Fetch(context.Background(), "12951", "15-01-2024")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	expected := &models.TrainStatusRecord{
		TrainNo:         "12951",
		TrainName:       "12951 Mumbai Rajdhani",
		Status:          "Running Late",
		CurrentLocation: "Ratlam Jn",
		DelayMinutes:    25,
		Date:            "15-01-2024",
		LastUpdated:     "11:30:00",
		Source:          "NDLS",
		Destination:     "BCT",
		DataSource:      "NTES",
	}
	if *record != *expected {
		t.Errorf("Fetch() = %+v, want %+v", record, expected)
	}
}

func TestAdapterFetchDegradedPage(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")
	page := `<html><body><span id="lblTrainName">12951 Mumbai Rajdhani</span><p>temporary page</p></body></html>`
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusOK, page))

	record, err := a.Fetch(context.Background(), "12951", "15-01-2024")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if record.Status != models.DefaultStatus {
		t.Errorf("Status = %q, want default %q", record.Status, models.DefaultStatus)
	}
	if record.CurrentLocation != models.DefaultLocation {
		t.Errorf("CurrentLocation = %q, want default %q", record.CurrentLocation, models.DefaultLocation)
	}
	if record.DelayMinutes != 0 {
		t.Errorf("DelayMinutes = %d, want 0", record.DelayMinutes)
	}
	if record.Source != models.DefaultStation || record.Destination != models.DefaultStation {
		t.Errorf("route = (%q, %q), want placeholders", record.Source, record.Destination)
	}
}

func TestAdapterFetchDefaultTrainName(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")
	page := `<html><body><span id="lblRunningStatus">Departed</span></body></html>`
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusOK, page))

	record, err := a.Fetch(context.Background(), "12951", "15-01-2024")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if record.TrainName != "Train 12951" {
		t.Errorf("TrainName = %q, want placeholder", record.TrainName)
	}
	if record.Status != "Departed" {
		t.Errorf("Status = %q, want %q", record.Status, "Departed")
	}
}

func TestAdapterFetchNoSignal(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("99999", "15-01-2024")
	page := `<html><body><div class="maintenance">Back soon</div></body></html>`
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusOK, page))

	_, err := a.Fetch(context.Background(), "99999", "15-01-2024")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Fetch() error = %v, want ErrNoData", err)
	}
	if count := httpmock.GetTotalCallCount(); count != 1 {
		t.Errorf("call count = %d, want 1 (empty pages are not retried)", count)
	}
}

func TestAdapterFetchRetriesBadStatus(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	_, err := a.Fetch(context.Background(), "12951", "15-01-2024")
	if err == nil {
		t.Fatal("Fetch() error = nil, want exhaustion error")
	}
	if count := httpmock.GetTotalCallCount(); count != 3 {
		t.Errorf("call count = %d, want 3", count)
	}
}

func TestAdapterFetchRecoversAfterTimeout(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")

	calls := 0
	httpmock.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return nil, &net.DNSError{IsTimeout: true}
		}
		return httpmock.NewStringResponse(http.StatusOK, ntesFixture), nil
	})

	record, err := a.Fetch(context.Background(), "12951", "15-01-2024")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if record.TrainName != "12951 Mumbai Rajdhani" {
		t.Errorf("TrainName = %q after recovery", record.TrainName)
	}
}

func TestAdapterSendsBrowserHeaders(t *testing.T) {
	a := testAdapter(t, NTES(""))
	url := a.profile.BuildURL("12951", "15-01-2024")

	httpmock.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent")
		}
		if got := req.Header.Get("Accept-Language"); got != "en-US,en;q=0.5" {
			t.Errorf("Accept-Language = %q", got)
		}
		return httpmock.NewStringResponse(http.StatusOK, ntesFixture), nil
	})

	if _, err := a.Fetch(context.Background(), "12951", "15-01-2024"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
}

func TestAdapterProbe(t *testing.T) {
	a := testAdapter(t, ETrain(""))
	httpmock.RegisterResponder("GET", a.profile.ProbeURL, httpmock.NewStringResponder(http.StatusOK, "up"))

	if got := a.Probe(context.Background()); got != fetch.ProbeOK {
		t.Errorf("Probe() = %q, want %q", got, fetch.ProbeOK)
	}
}
