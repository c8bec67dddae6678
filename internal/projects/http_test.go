package projects

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/projects/service"
	"github.com/TheProSWPPP/swppp-interface/internal/storage/memory"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	svc := service.NewProjectService(memory.New())
	Register(r.Group("/api"), svc)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, path, nil)
	} else {
		req, err = http.NewRequest(method, path, strings.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateAndList(t *testing.T) {
	r := newTestRouter()

	rr := doJSON(t, r, "POST", "/api/projects", `{"id":"p1","projectName":"Test","plansUploaded":true}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, "Test", created.ProjectName)

	rr = doJSON(t, r, "GET", "/api/projects", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "p1", listed[0].ID)
}

func TestCreateConflict(t *testing.T) {
	r := newTestRouter()

	rr := doJSON(t, r, "POST", "/api/projects", `{"id":"p1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, "POST", "/api/projects", `{"id":"p1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestCreateInvalidBody(t *testing.T) {
	r := newTestRouter()

	rr := doJSON(t, r, "POST", "/api/projects", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateMergesFields(t *testing.T) {
	r := newTestRouter()

	doJSON(t, r, "POST", "/api/projects", `{"id":"p1","email":"a@b.c"}`)

	rr := doJSON(t, r, "PUT", "/api/projects/p1", `{"county":"Travis"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var p domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Travis", p.County)
	assert.Equal(t, "a@b.c", p.Email)
}

func TestUpdateMissingProject(t *testing.T) {
	r := newTestRouter()

	rr := doJSON(t, r, "PUT", "/api/projects/nope", `{"county":"Travis"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteArchiveRestoreFlow(t *testing.T) {
	r := newTestRouter()

	doJSON(t, r, "POST", "/api/projects", `{"id":"p1","projectName":"Test","status":"Approved for Generation"}`)

	rr := doJSON(t, r, "DELETE", "/api/projects/p1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, r, "GET", "/api/projects", "")
	var active []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &active))
	assert.Empty(t, active)

	rr = doJSON(t, r, "GET", "/api/archive", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var archived []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &archived))
	require.Len(t, archived, 1)
	assert.NotNil(t, archived[0].DeletedAt)

	rr = doJSON(t, r, "POST", "/api/archive/p1/restore", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var restored domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &restored))
	assert.Equal(t, "Approved for Generation", restored.Status)
	assert.Nil(t, restored.DeletedAt)

	// Restoring twice: the id is no longer archived.
	rr = doJSON(t, r, "POST", "/api/archive/p1/restore", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAcceptAndApproveEndpoints(t *testing.T) {
	r := newTestRouter()

	doJSON(t, r, "POST", "/api/projects", `{"id":"p1","status":"New"}`)

	rr := doJSON(t, r, "POST", "/api/projects/p1/accept", "")
	require.Equal(t, http.StatusOK, rr.Code)

	// Gate not satisfied yet.
	rr = doJSON(t, r, "POST", "/api/projects/p1/approve", "")
	require.Equal(t, http.StatusPreconditionFailed, rr.Code)
	assert.Contains(t, rr.Body.String(), "plans not uploaded and not industrial")

	doJSON(t, r, "PUT", "/api/projects/p1", `{"plansUploaded":true}`)

	rr = doJSON(t, r, "POST", "/api/projects/p1/approve", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var p domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, domain.StatusApproved, p.Status)
}

func TestDeleteMissingProject(t *testing.T) {
	r := newTestRouter()

	rr := doJSON(t, r, "DELETE", "/api/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
