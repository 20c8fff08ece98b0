package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"railstatus/engine"
	"railstatus/extract"
	"railstatus/fetch"
	"railstatus/models"
	"railstatus/useragent"
)

// ErrNoData reports that the provider answered but the page carried no
// usable train signal. The orchestrator treats it like any other miss.
var ErrNoData = errors.New("no usable train data in response")

// Adapter fetches and normalizes one provider's page.
type Adapter struct {
	profile Profile
	client  *resty.Client
	agents  *useragent.Pool
	retrier *engine.Retrier
	loc     *time.Location
	now     func() time.Time
}

// New builds the adapter for one provider profile. The client should come
// from fetch.NewClient so every provider keeps its own transport.
func New(profile Profile, client *resty.Client, agents *useragent.Pool, retrier *engine.Retrier, loc *time.Location) *Adapter {
	return &Adapter{
		profile: profile,
		client:  client,
		agents:  agents,
		retrier: retrier,
		loc:     loc,
		now:     time.Now,
	}
}

// Key identifies the provider in logs, metrics and API payloads.
func (a *Adapter) Key() string { return a.profile.Key }

// DisplayName is the provider's human-readable name.
func (a *Adapter) DisplayName() string { return a.profile.DisplayName }

// DateIndexed reports whether the provider answers per journey start date.
func (a *Adapter) DateIndexed() bool { return a.profile.DateIndexed }

// Fetch retrieves and normalizes the provider's page for one train and
// date. A nil record with an error means this provider has no answer; the
// caller decides what to try next. Retries happen here, at the fetch level,
// and nowhere above.
func (a *Adapter) Fetch(ctx context.Context, trainNo, date string) (*models.TrainStatusRecord, error) {
	url := a.profile.BuildURL(trainNo, date)

	res, err := a.retrier.Do(ctx, a.profile.Key, func(ctx context.Context) (*fetch.Result, error) {
		return fetch.Do(ctx, a.client, url, a.requestHeaders())
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", a.profile.Key, err)
	}
	record, err := a.normalize(doc, trainNo, date)
	if err != nil {
		slog.Debug("response carried no train data",
			slog.String("source", a.profile.Key),
			slog.String("train_no", trainNo),
			slog.String("date", date),
		)
		return nil, err
	}
	return record, nil
}

// Probe checks reachability with the caller's deadline, for the health
// surface.
func (a *Adapter) Probe(ctx context.Context) string {
	return fetch.Probe(ctx, a.client, a.profile.ProbeURL, a.requestHeaders())
}

// requestHeaders copies the profile headers and picks a fresh user agent,
// one per attempt.
func (a *Adapter) requestHeaders() map[string]string {
	headers := make(map[string]string, len(a.profile.Headers)+1)
	for k, v := range a.profile.Headers {
		headers[k] = v
	}
	headers["User-Agent"] = a.agents.Pick()
	return headers
}

// normalize assembles the record, substituting placeholders for fields the
// page does not expose. A page matching neither a name nor a status rule
// carries no data at all and produces no record.
func (a *Adapter) normalize(doc *goquery.Document, trainNo, date string) (*models.TrainStatusRecord, error) {
	name, nameOK := extract.FirstText(doc, a.profile.NameRules)
	status, statusOK := extract.FirstText(doc, a.profile.StatusRules)
	if !nameOK && !statusOK {
		return nil, ErrNoData
	}
	if !nameOK {
		name = models.DefaultTrainName(trainNo)
	}
	if !statusOK {
		status = models.DefaultStatus
	}

	location, ok := extract.FirstText(doc, a.profile.LocationRules)
	if !ok {
		location = models.DefaultLocation
	}

	delay := 0
	if text, ok := extract.FirstText(doc, a.profile.DelayRules); ok {
		delay = extract.DelayMinutes(text)
	}

	src, dst, ok := extract.StationCodes(doc, a.profile.StationCodeSelector)
	if !ok {
		src, dst = models.DefaultStation, models.DefaultStation
	}

	return &models.TrainStatusRecord{
		TrainNo:         trainNo,
		TrainName:       name,
		Status:          status,
		CurrentLocation: location,
		DelayMinutes:    delay,
		Date:            date,
		LastUpdated:     a.now().In(a.loc).Format("15:04:05"),
		Source:          src,
		Destination:     dst,
		DataSource:      a.profile.DisplayName,
	}, nil
}
