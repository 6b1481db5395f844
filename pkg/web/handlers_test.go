package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/atriumhq/atrium/pkg/channels/gochannel"
	"github.com/atriumhq/atrium/pkg/eventbus"
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence/file"
	"github.com/atriumhq/atrium/pkg/services"
	"github.com/atriumhq/atrium/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	persistence := file.NewPersistence(t.TempDir())
	draftService := services.NewDraft(persistence)
	publishingService := services.NewPublishing(persistence, nil)
	validate := validator.New(validator.WithRequiredStructEnabled())

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := web.NewAPIHandlers(draftService, publishingService, validate, bus, logger)

	app := fiber.New()
	app.Get("/health", handlers.HealthCheck)

	d := app.Group("/drafts")
	d.Get("/", handlers.ListDrafts)
	d.Post("/", handlers.CreateDraft)
	d.Get("/schemas/:type", handlers.GetSchemas)
	d.Get("/:id", handlers.GetDraft)
	d.Patch("/:id", handlers.UpdateDraft)
	d.Delete("/:id", handlers.DeleteDraft)
	d.Post("/:id/publish", handlers.PublishDraft)

	return app
}

type draftEnvelope struct {
	Success bool         `json:"success"`
	Data    models.Draft `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Buffer

	switch payload := body.(type) {
	case nil:
		reader = bytes.NewBuffer(nil)
	case string:
		reader = bytes.NewBufferString(payload)
	default:
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeDraft(t *testing.T, resp *http.Response) models.Draft {
	t.Helper()

	var env draftEnvelope

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.Success)

	return env.Data
}

func createTestDraft(t *testing.T, app *fiber.App, owner string) models.Draft {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/drafts/", web.CreateDraftRequest{
		DraftType: models.DraftTypeProperty,
		Owner:     owner,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeDraft(t, resp)
}

// completeListing satisfies every visible step's validation schema for a
// residential property.
func completeListing() models.FormData {
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

func TestAPIHandlers_CreateDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
		validateResult func(t *testing.T, resp *http.Response)
	}{
		{
			name: "successful creation",
			requestBody: web.CreateDraftRequest{
				DraftType: models.DraftTypeProperty,
				Owner:     "alice",
			},
			expectedStatus: http.StatusCreated,
			validateResult: func(t *testing.T, resp *http.Response) {
				t.Helper()
				draft := decodeDraft(t, resp)
				assert.NotEmpty(t, draft.ID)
				assert.Equal(t, models.DraftTypeProperty, draft.Type)
				assert.Equal(t, models.DraftStatusDraft, draft.Status)
				assert.Equal(t, "alice", draft.Owner)
				assert.Empty(t, draft.Data)
			},
		},
		{
			name:           "validation error - missing type",
			requestBody:    web.CreateDraftRequest{Owner: "alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error - unknown type",
			requestBody:    map[string]any{"draft_type": "VILLA"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not-json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := setupTestApp(t)

			resp := doJSON(t, app, http.MethodPost, "/drafts/", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateResult != nil {
				tt.validateResult(t, resp)
			}
		})
	}
}

func TestAPIHandlers_GetDraft(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	created := createTestDraft(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/drafts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	loaded := decodeDraft(t, resp)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, models.DraftTypeProperty, loaded.Type)

	missing := doJSON(t, app, http.MethodGet, "/drafts/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAPIHandlers_UpdateDraft_MergesFields(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	created := createTestDraft(t, app, "alice")

	resp := doJSON(t, app, http.MethodPatch, "/drafts/"+created.ID, web.UpdateDraftRequest{
		Data: models.FormData{"title": "Sunlit 2BHK", "listing_type": "sale"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/drafts/"+created.ID, web.UpdateDraftRequest{
		Data: models.FormData{"city": "Pune"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeDraft(t, resp)
	assert.Equal(t, "Sunlit 2BHK", updated.Data["title"])
	assert.Equal(t, "sale", updated.Data["listing_type"])
	assert.Equal(t, "Pune", updated.Data["city"])
}

func TestAPIHandlers_UpdateDraft_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         func(t *testing.T, app *fiber.App) string
		requestBody    any
		expectedStatus int
	}{
		{
			name:           "draft not found",
			target:         func(_ *testing.T, _ *fiber.App) string { return "/drafts/does-not-exist" },
			requestBody:    web.UpdateDraftRequest{Data: models.FormData{"title": "x"}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "shape violation on known field",
			target: func(t *testing.T, app *fiber.App) string {
				return "/drafts/" + createTestDraft(t, app, "alice").ID
			},
			requestBody:    web.UpdateDraftRequest{Data: models.FormData{"title": 123}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "status escalation via update",
			target: func(t *testing.T, app *fiber.App) string {
				return "/drafts/" + createTestDraft(t, app, "alice").ID
			},
			requestBody: map[string]any{
				"draft_data":   map[string]any{"title": "x"},
				"draft_status": "published",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := setupTestApp(t)

			resp := doJSON(t, app, http.MethodPatch, tt.target(t, app), tt.requestBody)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAPIHandlers_DeleteDraft(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	created := createTestDraft(t, app, "alice")

	resp := doJSON(t, app, http.MethodDelete, "/drafts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	gone := doJSON(t, app, http.MethodGet, "/drafts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)

	missing := doJSON(t, app, http.MethodDelete, "/drafts/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAPIHandlers_PublishDraft(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	created := createTestDraft(t, app, "alice")

	resp := doJSON(t, app, http.MethodPatch, "/drafts/"+created.ID, web.UpdateDraftRequest{
		Data: completeListing(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/drafts/"+created.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	published := decodeDraft(t, resp)
	assert.Equal(t, models.DraftStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	// Published drafts conflict on re-publish and reject edits.
	again := doJSON(t, app, http.MethodPost, "/drafts/"+created.ID+"/publish", nil)
	assert.Equal(t, http.StatusConflict, again.StatusCode)

	edit := doJSON(t, app, http.MethodPatch, "/drafts/"+created.ID, web.UpdateDraftRequest{
		Data: models.FormData{"title": "too late"},
	})
	assert.Equal(t, http.StatusBadRequest, edit.StatusCode)
}

func TestAPIHandlers_PublishDraft_Incomplete(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	created := createTestDraft(t, app, "alice")

	data := completeListing()
	delete(data, "pincode")

	resp := doJSON(t, app, http.MethodPatch, "/drafts/"+created.ID, web.UpdateDraftRequest{Data: data})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/drafts/"+created.ID+"/publish", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "location.pincode")

	// The draft survives the failed publish untouched.
	loaded := doJSON(t, app, http.MethodGet, "/drafts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, loaded.StatusCode)
	assert.Equal(t, models.DraftStatusDraft, decodeDraft(t, loaded).Status)
}

func TestAPIHandlers_ListDrafts(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	createTestDraft(t, app, "alice")
	createTestDraft(t, app, "alice")
	createTestDraft(t, app, "bob")

	tests := []struct {
		name          string
		target        string
		expectedCount int
		expectedTotal int64
	}{
		{"all drafts", "/drafts/", 3, 3},
		{"owner filter", "/drafts/?owner=alice", 2, 2},
		{"pagination", "/drafts/?limit=2&offset=2", 1, 3},
		{"type filter without matches", "/drafts/?type=DEVELOPER", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var response struct {
				Success     bool                  `json:"success"`
				Data        []models.DraftSummary `json:"data"`
				TotalCount  int64                 `json:"total_count"`
				HasNextPage bool                  `json:"has_next_page"`
			}

			require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
			assert.True(t, response.Success)
			assert.Len(t, response.Data, tt.expectedCount)
			assert.Equal(t, tt.expectedTotal, response.TotalCount)
		})
	}

	t.Run("invalid sort field", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/drafts/?sort_by=owner", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPIHandlers_GetSchemas(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/drafts/schemas/PROPERTY", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Success bool                `json:"success"`
		Data    web.SchemasResponse `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, models.DraftTypeProperty, env.Data.DraftType)
	assert.NotEmpty(t, env.Data.Steps)
	require.NotNil(t, env.Data.DataSchema)
	assert.Contains(t, env.Data.DataSchema.Properties, "title")

	stepIDs := make([]string, 0, len(env.Data.Steps))
	for _, step := range env.Data.Steps {
		stepIDs = append(stepIDs, step.ID)
	}

	assert.Contains(t, stepIDs, "basic_details")
	assert.Contains(t, stepIDs, "review")

	unknown := doJSON(t, app, http.MethodGet, "/drafts/schemas/VILLA", nil)
	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status   string            `json:"status"`
		Checkers map[string]string `json:"checkers"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Contains(t, body.Checkers["repository"], "healthy")
}
