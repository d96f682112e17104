package domain

import (
	"context"
	"errors"
)

type Service interface {
	// IngestFile runs the full pipeline for one uploaded file: parse,
	// match, compute, dedup-insert, and fold the new rows into the
	// company's totals. Row-level failures are collected in the returned
	// batch; only precondition and infrastructure failures return an error.
	IngestFile(ctx context.Context, req IngestFileRequest) (*IngestionBatch, error)
}

var (
	ErrInvalidFile   = errors.New("invalid_policy_file")
	ErrEmptyFile     = errors.New("empty_policy_file")
	ErrNoMasterRules = errors.New("no_master_rules_for_company")
)

// Row-level error reasons surfaced in IngestionBatch.Errors.
const (
	ReasonMissingPolicyNo  = "Missing policy number"
	ReasonMissingIssueDate = "Missing or unparseable issue date"
	ReasonNoMatchingRule   = "No matching master rule"
)
