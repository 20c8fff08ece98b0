package sources

import "railstatus/extract"

// Default provider endpoints, overridable through configuration.
const (
	ntesBaseURL      = "https://enquiry.indianrail.gov.in/mntes/"
	railyatriBaseURL = "https://www.railyatri.in"
	etrainBaseURL    = "https://etrain.info"
)

// NTES is the official National Train Enquiry System and is queried first.
// Its running-status lookup is indexed by journey start date, so the
// orchestrator walks it through the date ladder.
func NTES(baseURL string) Profile {
	if baseURL == "" {
		baseURL = ntesBaseURL
	}
	return Profile{
		Key:         "ntes",
		DisplayName: "NTES",
		URLTemplate: baseURL + "?opt=TrainRunning&subOpt=FindTrain&trainNo={trainNo}&date={date}",
		ProbeURL:    baseURL,
		DateIndexed: true,
		Headers:     baseHeaders(),
		NameRules: []extract.Rule{
			{Selector: "span#lblTrainName", MinLen: 3},
			{Selector: "div.train-name", MinLen: 3},
			{Selector: "h3", MinLen: 3},
			{Selector: "title", MinLen: 3},
		},
		StatusRules: []extract.Rule{
			{Selector: "span#lblRunningStatus"},
			{Selector: "div.status"},
			{Selector: "p.running-status"},
		},
		LocationRules: []extract.Rule{
			{Selector: "span#lblLastLocation"},
			{Selector: "div.location"},
			{Selector: "span#lblCurrentStation"},
		},
		DelayRules: []extract.Rule{
			{Selector: "span#lblDelay"},
			{Selector: "div.delay"},
		},
		StationCodeSelector: "span.station-code",
	}
}

// RailYatri is a consumer live-status page, tried when NTES gives nothing.
// The page always shows the current run, so it is not date-indexed.
func RailYatri(baseURL string) Profile {
	if baseURL == "" {
		baseURL = railyatriBaseURL
	}
	return Profile{
		Key:         "railyatri",
		DisplayName: "RailYatri",
		URLTemplate: baseURL + "/live-train-status/{trainNo}",
		ProbeURL:    baseURL + "/live-train-status",
		DateIndexed: false,
		Headers:     baseHeaders(),
		NameRules: []extract.Rule{
			{Selector: "h1.train-name", MinLen: 3},
			{Selector: "div.train-info h2", MinLen: 3},
			{Selector: "h1", MinLen: 3},
			{Selector: "title", MinLen: 3},
		},
		StatusRules: []extract.Rule{
			{Selector: "div.running-status span.status"},
			{Selector: "div.rs-status"},
			{Selector: "p.train-status"},
		},
		LocationRules: []extract.Rule{
			{Selector: "span.current-station"},
			{Selector: "div.current-location"},
			{Selector: "div.rs-location"},
		},
		DelayRules: []extract.Rule{
			{Selector: "span.delay"},
			{Selector: "div.delay-status"},
		},
		StationCodeSelector: "span.station-code",
	}
}

// ETrain is the community mirror and the last resort. Plain server-rendered
// markup, slow but tolerant.
func ETrain(baseURL string) Profile {
	if baseURL == "" {
		baseURL = etrainBaseURL
	}
	return Profile{
		Key:         "etrain",
		DisplayName: "eTrain",
		URLTemplate: baseURL + "/train/{trainNo}/live",
		ProbeURL:    baseURL,
		DateIndexed: false,
		Headers:     baseHeaders(),
		NameRules: []extract.Rule{
			{Selector: "span#trainName", MinLen: 3},
			{Selector: "td.train-name a", MinLen: 3},
			{Selector: "h2", MinLen: 3},
			{Selector: "title", MinLen: 3},
		},
		StatusRules: []extract.Rule{
			{Selector: "span#runningStatus"},
			{Selector: "div.running-status"},
			{Selector: "b.status"},
		},
		LocationRules: []extract.Rule{
			{Selector: "span#currentStation"},
			{Selector: "td.current-station"},
			{Selector: "div.last-location"},
		},
		DelayRules: []extract.Rule{
			{Selector: "span#delayMinutes"},
			{Selector: "td.delay"},
		},
		StationCodeSelector: "span.stn-code",
	}
}

// Defaults returns the three providers in query priority order.
func Defaults() []Profile {
	return []Profile{NTES(""), RailYatri(""), ETrain("")}
}
