package services

import (
	"testing"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/atriumhq/atrium/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftService(t *testing.T) (*Draft, persistence.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	return NewDraft(p), p
}

func TestDraft_Create(t *testing.T) {
	svc, _ := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeProperty, "  alice ")
	require.NoError(t, err)

	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, models.DraftTypeProperty, draft.Type)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
	assert.Equal(t, "alice", draft.Owner)
	assert.NotNil(t, draft.Data)
	assert.Empty(t, draft.Data)
	assert.False(t, draft.CreatedAt.IsZero())

	loaded, err := svc.FetchByID(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, loaded.ID)
}

func TestDraft_Create_InvalidType(t *testing.T) {
	svc, _ := newDraftService(t)

	_, err := svc.Create(t.Context(), models.DraftType("CASTLE"), "alice")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestDraft_FetchByID_NotFound(t *testing.T) {
	svc, _ := newDraftService(t)

	_, err := svc.FetchByID(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraft_Update_MergesWithoutClobbering(t *testing.T) {
	svc, _ := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	_, err = svc.Update(t.Context(), draft.ID, models.FormData{
		"title": "Garden-facing 2BHK",
		"city":  "Pune",
	}, nil)
	require.NoError(t, err)

	// A later step's payload must not remove the earlier step's keys.
	updated, err := svc.Update(t.Context(), draft.ID, models.FormData{
		"carpet_area": 980.5,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Garden-facing 2BHK", updated.Data.String("title"))
	assert.Equal(t, "Pune", updated.Data.String("city"))
	assert.True(t, updated.Data.Has("carpet_area"))
}

func TestDraft_Update_ShapeCheck(t *testing.T) {
	svc, _ := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	// Known key with the wrong JSON type is rejected.
	_, err = svc.Update(t.Context(), draft.ID, models.FormData{
		"carpet_area": "twelve hundred",
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDraftData)

	// Half-typed values of the right type pass; finished-value rules live
	// with the step validators, not the shape check.
	_, err = svc.Update(t.Context(), draft.ID, models.FormData{
		"pincode": "41",
	}, nil)
	require.NoError(t, err)

	// Unknown keys pass through untouched.
	updated, err := svc.Update(t.Context(), draft.ID, models.FormData{
		"internal_campaign_ref": "summer-2026",
	}, nil)
	require.NoError(t, err)
	assert.True(t, updated.Data.Has("internal_campaign_ref"))
}

func TestDraft_Update_RejectsStatusEscalation(t *testing.T) {
	svc, _ := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	published := models.DraftStatusPublished
	_, err = svc.Update(t.Context(), draft.ID, models.FormData{}, &published)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	current := models.DraftStatusDraft
	_, err = svc.Update(t.Context(), draft.ID, models.FormData{}, &current)
	assert.NoError(t, err)
}

func TestDraft_Update_PublishedDraftConflicts(t *testing.T) {
	svc, p := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeProperty, "alice")
	require.NoError(t, err)

	draft.Status = models.DraftStatusPublished
	require.NoError(t, p.Drafts().Save(t.Context(), draft))

	_, err = svc.Update(t.Context(), draft.ID, models.FormData{"title": "Too late"}, nil)
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
}

func TestDraft_List(t *testing.T) {
	svc, _ := newDraftService(t)

	for range 3 {
		_, err := svc.Create(t.Context(), models.DraftTypeProperty, "alice")
		require.NoError(t, err)
	}

	_, err := svc.Create(t.Context(), models.DraftTypeProject, "bob")
	require.NoError(t, err)

	resp, err := svc.List(t.Context(), ListDraftsRequest{Owner: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Len(t, resp.Drafts, 3)
	assert.False(t, resp.HasNextPage)

	page, err := svc.List(t.Context(), ListDraftsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Drafts, 2)
	assert.True(t, page.HasNextPage)

	_, err = svc.List(t.Context(), ListDraftsRequest{SortBy: "owner"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSortField)

	_, err = svc.List(t.Context(), ListDraftsRequest{SortOrder: "sideways"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestDraft_Delete(t *testing.T) {
	svc, _ := newDraftService(t)

	draft, err := svc.Create(t.Context(), models.DraftTypeDeveloper, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(t.Context(), draft.ID))

	_, err = svc.FetchByID(t.Context(), draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	assert.ErrorIs(t, svc.Delete(t.Context(), draft.ID), ErrDraftNotFound)
}

func TestDraft_HealthCheck(t *testing.T) {
	svc, _ := newDraftService(t)

	message, healthy := svc.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.NotEmpty(t, message)

	var uninitialized Draft

	_, healthy = uninitialized.HealthCheck(t.Context())
	assert.False(t, healthy)
}
