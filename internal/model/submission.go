package model

import (
	"strconv"
	"time"

	"fieldlex-client/pkg/errors"
)

type SubmissionStatus string

const (
	SubmissionStatusPending       SubmissionStatus = "PENDING"
	SubmissionStatusSynced        SubmissionStatus = "SYNCED"
	SubmissionStatusRejectedLocal SubmissionStatus = "REJECTED_LOCAL"
)

// EntityRef carries both representations of a catalog entity identifier.
// Server-origin records expose a canonical id; records seeded from legacy
// mock data only have a locally assigned numeric id.
type EntityRef struct {
	CanonicalID string `json:"canonical_id,omitempty"`
	LegacyID    int64  `json:"legacy_id,omitempty"`
}

// Resolve picks the identifier the remote service accepts. The canonical id
// always wins; a legacy id is coerced to its decimal string form only when
// no canonical id is present.
func (r EntityRef) Resolve() (string, error) {
	if r.CanonicalID != "" {
		return r.CanonicalID, nil
	}
	if r.LegacyID != 0 {
		return strconv.FormatInt(r.LegacyID, 10), nil
	}
	return "", errors.ErrUnresolvableID
}

// IsZero reports whether the ref holds no identifier at all.
func (r EntityRef) IsZero() bool {
	return r.CanonicalID == "" && r.LegacyID == 0
}

// Submission is the unit of work: one collected word equivalent, destined
// for the remote service. Once Status is SYNCED only RemoteID and Status
// may have been touched since creation.
type Submission struct {
	ID           string           `json:"id" db:"id"`
	WordID       string           `json:"word_id" db:"word_id"`
	LanguageID   string           `json:"language_id" db:"language_id"`
	DistrictID   string           `json:"district_id" db:"district_id"`
	TehsilID     string           `json:"tehsil_id" db:"tehsil_id"`
	VillageID    string           `json:"village_id" db:"village_id"`
	RegionalText string           `json:"regional_text" db:"regional_text"`
	AudioPath    string           `json:"audio_path,omitempty" db:"audio_path"`
	AudioData    []byte           `json:"audio_data,omitempty" db:"audio_data"`
	Status       SubmissionStatus `json:"status" db:"status"`
	RemoteID     string           `json:"remote_id,omitempty" db:"remote_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// QueueEntry is a submission plus offline-queue metadata.
type QueueEntry struct {
	ID         int64      `json:"id" db:"id"`
	Submission Submission `json:"submission"`
	EnqueuedAt time.Time  `json:"enqueued_at" db:"enqueued_at"`
}

// FormState is what the collection UI hands over at form-submit time.
// Identifiers arrive as dual-representation refs; the builder resolves them.
type FormState struct {
	Word         EntityRef `json:"word"`
	Language     EntityRef `json:"language"`
	District     EntityRef `json:"district"`
	Tehsil       EntityRef `json:"tehsil"`
	Village      EntityRef `json:"village"`
	RegionalText string    `json:"regional_text"`
	AudioPath    string    `json:"audio_path,omitempty"`
	AudioData    []byte    `json:"audio_data,omitempty"`
}
