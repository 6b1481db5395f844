package services

import (
	"testing"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completePropertyData is a residential listing document that satisfies every
// visible step's validation schema.
func completePropertyData() models.FormData {
	return models.FormData{
		"title":             "Garden-facing 2BHK in Koregaon Park",
		"listing_type":      "sale",
		"property_category": "residential",
		"property_kind":     "apartment",
		"city":              "Pune",
		"locality":          "Koregaon Park",
		"pincode":           "411001",
		"carpet_area":       980.0,
		"super_area":        1150.0,
		"possession_status": "ready_to_move",
		"base_price":        9500000.0,
		"amenities":         []string{"lift", "gym"},
	}
}

func TestPublishing_PublishDraft(t *testing.T) {
	draftSvc, p := newDraftService(t)
	svc := NewPublishing(p, nil)

	draft, err := draftSvc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	_, err = draftSvc.Update(t.Context(), draft.ID, completePropertyData(), nil)
	require.NoError(t, err)

	published, err := svc.PublishDraft(t.Context(), draft.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DraftStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
}

func TestPublishing_IncompleteDraftFails(t *testing.T) {
	draftSvc, p := newDraftService(t)
	svc := NewPublishing(p, nil)

	draft, err := draftSvc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	data := completePropertyData()
	delete(data, "pincode")
	data["base_price"] = 0.0

	_, err = draftSvc.Update(t.Context(), draft.ID, data, nil)
	require.NoError(t, err)

	_, err = svc.PublishDraft(t.Context(), draft.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDraftIncomplete)
	assert.Contains(t, err.Error(), "location.pincode")
	assert.Contains(t, err.Error(), "pricing.base_price")

	// The draft stays editable after a failed publish.
	loaded, err := draftSvc.FetchByID(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusDraft, loaded.Status)
}

func TestPublishing_HiddenBranchIsNotValidated(t *testing.T) {
	draftSvc, p := newDraftService(t)
	svc := NewPublishing(p, nil)

	draft, err := draftSvc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	// Orphaned commercial fields from an abandoned branch stay in the
	// document; a residential publish ignores them.
	data := completePropertyData()
	data["cabin_count"] = 450

	_, err = draftSvc.Update(t.Context(), draft.ID, data, nil)
	require.NoError(t, err)

	_, err = svc.PublishDraft(t.Context(), draft.ID)
	assert.NoError(t, err)
}

func TestPublishing_AlreadyPublishedConflicts(t *testing.T) {
	draftSvc, p := newDraftService(t)
	svc := NewPublishing(p, nil)

	draft, err := draftSvc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	_, err = draftSvc.Update(t.Context(), draft.ID, completePropertyData(), nil)
	require.NoError(t, err)

	_, err = svc.PublishDraft(t.Context(), draft.ID)
	require.NoError(t, err)

	_, err = svc.PublishDraft(t.Context(), draft.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDraftAlreadyPublished)
	assert.True(t, IsConflictError(err))
}

func TestPublishing_NotFound(t *testing.T) {
	_, p := newDraftService(t)
	svc := NewPublishing(p, nil)

	_, err := svc.PublishDraft(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
