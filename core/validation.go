// Copyright 2026 Baibhav Bista
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
)

// ValidateJob validates a Job according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Level must be a known JobLevel
//   - Status must be a known JobStatus
//   - SessionId must not be empty
//   - Text must not be empty
//   - Field-level jobs must carry a ColumnName
//
// NOT validated:
//   - TextHash (derived from Text by the creator)
//   - ProcessedAt (zero until the job terminalizes)
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyID)
	}

	if err := ValidateLevel(job.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if err := ValidateStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.SessionId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptySessionID)
	}

	if job.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyText)
	}

	if job.Level == LevelField && job.ColumnName == "" {
		return fmt.Errorf("%w: field-level job requires a column name", ErrInvalidJob)
	}

	return nil
}

// ValidateVectorRecord validates a VectorRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Level must be a known JobLevel
//   - SessionId must not be empty
//   - Vector must not be empty
func ValidateVectorRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVectorRecord)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyID)
	}

	if err := ValidateLevel(record.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, err)
	}

	if record.SessionId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptySessionID)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyVector)
	}

	return nil
}

// ValidateLevel validates that a JobLevel has a known value.
func ValidateLevel(level JobLevel) error {
	if level != LevelField && level != LevelCycle && level != LevelSession {
		return fmt.Errorf("%w: value %d", ErrInvalidLevel, level)
	}
	return nil
}

// ValidateStatus validates that a JobStatus has a known value.
func ValidateStatus(status JobStatus) error {
	switch status {
	case StatusPending, StatusProcessing, StatusDone, StatusError:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
}

// ValidateOutcome validates that a CycleOutcome has a known value.
// The outcome vocabulary is exactly {hit, miss, partial}.
func ValidateOutcome(outcome CycleOutcome) error {
	switch outcome {
	case OutcomeHit, OutcomeMiss, OutcomePartial:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidOutcome, outcome)
}
