package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/organization-directory-api/internal/constants"
	"github.com/yukikurage/organization-directory-api/internal/dto"
	"github.com/yukikurage/organization-directory-api/internal/repository"
	"github.com/yukikurage/organization-directory-api/internal/services"
)

type apiClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	authHandler := NewAuthHandler(services.NewAuthService(repository.NewUserRepository(db)), quietLogger())
	orgHandler := NewOrganizationHandler(
		services.NewOrganizationService(repository.NewOrganizationRepository(db), nil),
		quietLogger(),
	)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionName, cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(r, authHandler, orgHandler)
	return r
}

func (a *apiClient) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(a.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		a.cookies = set
	}
	return w
}

// signupAndLogin returns a client holding a session for a fresh user.
func signupAndLogin(t *testing.T, r *gin.Engine, username string) (*apiClient, string) {
	t.Helper()
	client := &apiClient{t: t, router: r}

	creds := map[string]string{"username": username, "password": "correct-horse"}
	w := client.do(http.MethodPost, "/auth/signup", creds)
	require.Equal(t, http.StatusCreated, w.Code)

	w = client.do(http.MethodPost, "/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code)

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.NotEmpty(t, user.ID)
	return client, user.ID
}

func TestRoutes_Health(t *testing.T) {
	r := setupRouter(t)
	client := &apiClient{t: t, router: r}

	w := client.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_OrganizationsRequireSession(t *testing.T) {
	r := setupRouter(t)
	client := &apiClient{t: t, router: r}

	w := client.do(http.MethodGet, "/organizations", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = client.do(http.MethodPost, "/organizations", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_MembershipScenario(t *testing.T) {
	r := setupRouter(t)
	alice, aliceID := signupAndLogin(t, r, "alice")
	bob, bobID := signupAndLogin(t, r, "bob")
	mallory, _ := signupAndLogin(t, r, "mallory")

	w := alice.do(http.MethodPost, "/organizations", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusOK, w.Code)
	var org dto.OrganizationWithMembersDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))
	require.Equal(t, aliceID, org.CreatedBy)
	orgPath := "/organizations/" + org.OrgID

	w = bob.do(http.MethodPost, "/organizations", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = alice.do(http.MethodPost, orgPath+"/members", map[string]string{"user_id": bobID, "role": "staff"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodGet, orgPath, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = mallory.do(http.MethodGet, orgPath+"/members", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = bob.do(http.MethodPatch, orgPath+"/members/"+aliceID, map[string]string{"role": "staff"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = alice.do(http.MethodPatch, orgPath+"/members/"+bobID, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodDelete, orgPath+"/members/"+aliceID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = bob.do(http.MethodGet, orgPath+"/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members []dto.OrganizationMemberDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 1)
	require.Equal(t, bobID, members[0].UserID)

	w = alice.do(http.MethodGet, "/organizations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	w = mallory.do(http.MethodDelete, orgPath, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = bob.do(http.MethodDelete, orgPath, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = mallory.do(http.MethodDelete, orgPath, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
