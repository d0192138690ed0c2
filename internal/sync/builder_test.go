package sync

import (
	"strings"
	"testing"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/model"
	"fieldlex-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder() *Builder {
	cfg := &config.Config{}
	cfg.Remote.SubmissionsEndpoint = "/api/v1/submissions"
	cfg.Remote.UploadEndpoint = "/api/v1/submissions/upload"
	return NewBuilder(cfg)
}

func validForm() model.FormState {
	return model.FormState{
		Word:         model.EntityRef{CanonicalID: "w-1"},
		Language:     model.EntityRef{CanonicalID: "lg-1"},
		District:     model.EntityRef{CanonicalID: "d-1"},
		Tehsil:       model.EntityRef{CanonicalID: "t-1"},
		Village:      model.EntityRef{CanonicalID: "v-1"},
		RegionalText: "panee",
	}
}

func TestBuildRejectsOutOfBoundsText(t *testing.T) {
	b := testBuilder()

	for _, text := range []string{"x", strings.Repeat("x", 51), ""} {
		form := validForm()
		form.RegionalText = text

		desc, sub, err := b.Build(form)
		require.Error(t, err, "text %q must not build", text)
		assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		assert.Nil(t, desc, "no descriptor may exist for an invalid form")
		assert.Nil(t, sub)
	}

	// Boundary lengths are accepted.
	for _, text := range []string{"xx", strings.Repeat("x", 50)} {
		form := validForm()
		form.RegionalText = text

		_, _, err := b.Build(form)
		require.NoError(t, err, "text of length %d must build", len(text))
	}
}

func TestBuildTrimsRegionalText(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.RegionalText = "  panee  "

	_, sub, err := b.Build(form)
	require.NoError(t, err)
	assert.Equal(t, "panee", sub.RegionalText)

	// Whitespace alone is an empty value.
	form.RegionalText = "      "
	_, _, err = b.Build(form)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestBuildRejectsMissingIdentifiers(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.Village = model.EntityRef{}

	_, _, err := b.Build(form)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	var ve errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "village", ve.Field)
}

func TestBuildPrefersCanonicalIdentifier(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.Word = model.EntityRef{CanonicalID: "8a2f1c34-word", LegacyID: 42}

	_, sub, err := b.Build(form)
	require.NoError(t, err)
	assert.Equal(t, "8a2f1c34-word", sub.WordID)
}

func TestBuildFallsBackToLegacyIdentifier(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.Word = model.EntityRef{LegacyID: 42}

	desc, sub, err := b.Build(form)
	require.NoError(t, err)
	assert.Equal(t, "42", sub.WordID)

	payload, ok := desc.JSONBody.(model.SubmissionPayload)
	require.True(t, ok)
	assert.Equal(t, "42", payload.WordID)
}

func TestBuildChoosesMultipartForInMemoryAudio(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.AudioData = []byte{0x0a, 0x0b}

	desc, sub, err := b.Build(form)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/submissions/upload", desc.Path)
	require.NotNil(t, desc.Attachment)
	assert.Equal(t, sub.ID+".m4a", desc.Attachment.FileName)
	assert.Equal(t, []byte{0x0a, 0x0b}, desc.Attachment.Data)
	assert.Equal(t, "panee", desc.Fields["regionalText"])
	assert.Nil(t, desc.JSONBody)
}

func TestBuildCarriesPathReferenceInJSON(t *testing.T) {
	b := testBuilder()

	form := validForm()
	form.AudioPath = "/sdcard/rec/panee.m4a"

	desc, _, err := b.Build(form)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/submissions", desc.Path)
	assert.Nil(t, desc.Attachment)

	payload, ok := desc.JSONBody.(model.SubmissionPayload)
	require.True(t, ok)
	assert.Equal(t, "file:///sdcard/rec/panee.m4a", payload.AudioURL)
}

func TestBuildWithoutAudioOmitsAudioField(t *testing.T) {
	b := testBuilder()

	desc, sub, err := b.Build(validForm())
	require.NoError(t, err)

	payload, ok := desc.JSONBody.(model.SubmissionPayload)
	require.True(t, ok)
	assert.Empty(t, payload.AudioURL)
	assert.Equal(t, model.SubmissionStatusPending, sub.Status)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())
}
