package clinic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-platform/pkg/logging"
)

func TestGetSettingsServesDefaults(t *testing.T) {
	h := NewHandler(newStore(t), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/clinic", nil)
	w := httptest.NewRecorder()
	h.GetSettings(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got Settings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "BrightSmile Dental Clinic", got.Name)
	assert.NotEmpty(t, got.Services)
}

func TestUpdateSettingsPersists(t *testing.T) {
	store := newStore(t)
	h := NewHandler(store, logging.Default())

	body := `{"name":"Harbor Dental","timezone":"UTC"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/clinic", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.UpdateSettings(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.Get(req.Context())
	require.NoError(t, err)
	assert.Equal(t, "Harbor Dental", got.Name)
}

func TestUpdateSettingsRequiresName(t *testing.T) {
	h := NewHandler(newStore(t), logging.Default())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/clinic", strings.NewReader(`{"timezone":"UTC"}`))
	w := httptest.NewRecorder()
	h.UpdateSettings(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
