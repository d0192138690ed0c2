package sync

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/remote"
	"fieldlex-client/pkg/errors"

	"github.com/google/uuid"
)

const (
	minRegionalTextLen = 2
	maxRegionalTextLen = 50
)

// Builder turns form state into a submission and the request descriptor
// that delivers it. Validation runs before any descriptor exists, so an
// invalid form never produces a network call.
type Builder struct {
	submissionsPath string
	uploadPath      string
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		submissionsPath: cfg.Remote.SubmissionsEndpoint,
		uploadPath:      cfg.Remote.UploadEndpoint,
	}
}

// Build validates form, resolves its identifiers and returns the submission
// record plus a ready-to-execute descriptor.
func (b *Builder) Build(form model.FormState) (*remote.Descriptor, *model.Submission, error) {
	form.RegionalText = strings.TrimSpace(form.RegionalText)
	if err := validate(form); err != nil {
		return nil, nil, err
	}

	wordID, err := resolveRef("word", form.Word)
	if err != nil {
		return nil, nil, err
	}
	languageID, err := resolveRef("language", form.Language)
	if err != nil {
		return nil, nil, err
	}
	districtID, err := resolveRef("district", form.District)
	if err != nil {
		return nil, nil, err
	}
	tehsilID, err := resolveRef("tehsil", form.Tehsil)
	if err != nil {
		return nil, nil, err
	}
	villageID, err := resolveRef("village", form.Village)
	if err != nil {
		return nil, nil, err
	}

	sub := &model.Submission{
		ID:           uuid.NewString(),
		WordID:       wordID,
		LanguageID:   languageID,
		DistrictID:   districtID,
		TehsilID:     tehsilID,
		VillageID:    villageID,
		RegionalText: form.RegionalText,
		AudioPath:    form.AudioPath,
		AudioData:    form.AudioData,
		Status:       model.SubmissionStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	return b.Descriptor(sub), sub, nil
}

// Descriptor builds the request for an already validated submission. Used
// by Build and again by the sync service when replaying queued entries.
// An in-memory recording forces multipart; a path-only reference travels
// inside the JSON body as a URL-like field.
func (b *Builder) Descriptor(sub *model.Submission) *remote.Descriptor {
	if len(sub.AudioData) > 0 {
		return &remote.Descriptor{
			Method: http.MethodPost,
			Path:   b.uploadPath,
			Fields: map[string]string{
				"wordId":       sub.WordID,
				"languageId":   sub.LanguageID,
				"districtId":   sub.DistrictID,
				"tehsilId":     sub.TehsilID,
				"villageId":    sub.VillageID,
				"regionalText": sub.RegionalText,
			},
			Attachment: &remote.Attachment{
				FileName: sub.ID + ".m4a",
				Data:     sub.AudioData,
			},
		}
	}

	payload := model.SubmissionPayload{
		WordID:       sub.WordID,
		LanguageID:   sub.LanguageID,
		DistrictID:   sub.DistrictID,
		TehsilID:     sub.TehsilID,
		VillageID:    sub.VillageID,
		RegionalText: sub.RegionalText,
	}
	if sub.AudioPath != "" {
		payload.AudioURL = "file://" + sub.AudioPath
	}

	return &remote.Descriptor{
		Method:   http.MethodPost,
		Path:     b.submissionsPath,
		JSONBody: payload,
	}
}

func validate(form model.FormState) error {
	length := utf8.RuneCountInString(form.RegionalText)
	if length < minRegionalTextLen || length > maxRegionalTextLen {
		return errors.ValidationError{
			Field:   "regional_text",
			Value:   form.RegionalText,
			Message: "must be between 2 and 50 characters",
		}
	}
	return nil
}

func resolveRef(field string, ref model.EntityRef) (string, error) {
	id, err := ref.Resolve()
	if err != nil {
		return "", errors.ValidationError{
			Field:   field,
			Value:   ref,
			Message: "identifier is required",
		}
	}
	return id, nil
}
