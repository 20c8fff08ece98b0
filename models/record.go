// Package models defines the data structures exchanged between the
// retrieval engine and its callers.
package models

import (
	"fmt"
	"strings"
)

// Fallback values used when a provider page yields no usable text for a
// field. The record still goes out; the caller sees these markers instead
// of an error.
const (
	DefaultStatus   = "Running"
	DefaultLocation = "N/A"
	DefaultStation  = "N/A"
)

// TrainStatusRecord is the answer to "where is train N right now". Field
// names on the wire are fixed; clients of the old service depend on them.
type TrainStatusRecord struct {
	TrainNo         string `json:"train_no"`
	TrainName       string `json:"train_name"`
	Status          string `json:"status"`
	CurrentLocation string `json:"current_location"`
	DelayMinutes    int    `json:"delay_minutes"`
	Date            string `json:"date"`
	LastUpdated     string `json:"last_updated"`
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	DataSource      string `json:"data_source"`
	SourceUsed      string `json:"source_used"`
}

// DefaultTrainName is the placeholder used when no provider exposes the
// train's name.
func DefaultTrainName(trainNo string) string {
	return fmt.Sprintf("Train %s", trainNo)
}

// NotFoundError reports that every source and date combination was tried
// without producing a record.
type NotFoundError struct {
	TrainNo      string
	DatesTried   []string
	SourcesTried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("train %s not found (dates tried: %s; sources tried: %s)",
		e.TrainNo, strings.Join(e.DatesTried, ", "), strings.Join(e.SourcesTried, ", "))
}
