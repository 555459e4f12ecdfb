package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/domain"
)

func TestClientHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/clients", domain.CreateClientRequest{
		Name:    "Grace Hopper",
		Company: "Compilers Inc",
		Email:   "Grace@Example.com",
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var client domain.ClientDTO
	decode(t, rr, &client)
	assert.Equal(t, "grace@example.com", client.Email)
	assert.Equal(t, "/api/v1/admin/clients/"+client.ID.String(), rr.Header().Get("Location"))

	rr = env.do(t, http.MethodPost, "/api/v1/admin/clients", domain.CreateClientRequest{
		Name:  "Someone Else",
		Email: "grace@example.com",
	}, true)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/admin/clients?search=compilers", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Total int64              `json:"total"`
		Data  []domain.ClientDTO `json:"data"`
	}
	decode(t, rr, &page)
	assert.Equal(t, int64(1), page.Total)

	rr = env.do(t, http.MethodPut, "/api/v1/admin/clients/"+client.ID.String(), domain.UpdateClientRequest{
		Name:   "Grace Hopper",
		Email:  "grace@example.com",
		Status: domain.ClientStatusInactive,
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated domain.ClientDTO
	decode(t, rr, &updated)
	assert.Equal(t, domain.ClientStatusInactive, updated.Status)

	rr = env.do(t, http.MethodGet, "/api/v1/admin/clients/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/admin/clients/"+client.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var details domain.ClientWithDetailsDTO
	decode(t, rr, &details)
	assert.Empty(t, details.Contacts)
	assert.NotNil(t, details.Quotes)
}

func TestContactHandler_PrimaryContact(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/clients", domain.CreateClientRequest{Name: "Kiln Co", Email: "hello@kiln.example"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	var client domain.ClientDTO
	decode(t, rr, &client)

	for _, first := range []string{"Alan", "Barbara"} {
		rr = env.do(t, http.MethodPost, "/api/v1/admin/contacts", domain.CreateContactRequest{
			ClientID:  &client.ID,
			FirstName: first,
			LastName:  "Potter",
			IsPrimary: true,
		}, true)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/v1/admin/clients/"+client.ID.String()+"/contacts", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Data []domain.ContactDTO `json:"data"`
	}
	decode(t, rr, &page)
	require.Len(t, page.Data, 2)

	primaries := 0
	for _, c := range page.Data {
		if c.IsPrimary {
			primaries++
			assert.Equal(t, "Barbara", c.FirstName)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestProjectHandler_StatusTransitions(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/clients", domain.CreateClientRequest{Name: "Kiln Co", Email: "hello@kiln.example"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	var client domain.ClientDTO
	decode(t, rr, &client)

	rr = env.do(t, http.MethodPost, "/api/v1/admin/projects", domain.CreateProjectRequest{
		Name:      "Shop",
		ClientID:  client.ID,
		Budget:    4500,
		StartDate: "2026-07-01",
		DueDate:   "2026-06-01",
	}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/admin/projects", domain.CreateProjectRequest{
		Name:      "Shop",
		ClientID:  client.ID,
		Budget:    4500,
		StartDate: "2026/07/01",
	}, true)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var problem domain.APIError
	decode(t, rr, &problem)
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", problem.Errors["startDate"])

	rr = env.do(t, http.MethodPost, "/api/v1/admin/projects", domain.CreateProjectRequest{
		Name:     "Shop",
		ClientID: client.ID,
		Budget:   4500,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var project domain.ProjectDTO
	decode(t, rr, &project)
	assert.Equal(t, domain.ProjectStatusPlanning, project.Status)

	rr = env.do(t, http.MethodPut, "/api/v1/admin/projects/"+project.ID.String()+"/status",
		domain.UpdateProjectStatusRequest{Status: domain.ProjectStatusCompleted}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/v1/admin/projects/"+project.ID.String()+"/status",
		domain.UpdateProjectStatusRequest{Status: domain.ProjectStatusInProgress}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &project)
	assert.Equal(t, domain.ProjectStatusInProgress, project.Status)
}

func TestBlogHandler_PublishFlow(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/blog", domain.CreateBlogPostRequest{
		Title:   "Why Static Sites Still Win",
		Content: "Fast, cheap, secure.",
		Tags:    []string{"Performance"},
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var post domain.BlogPostDTO
	decode(t, rr, &post)
	assert.Equal(t, "why-static-sites-still-win", post.Slug)
	assert.Equal(t, domain.BlogPostStatusDraft, post.Status)

	rr = env.do(t, http.MethodGet, "/api/v1/blog/"+post.Slug, nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/admin/blog/"+post.ID.String()+"/publish", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/blog/"+post.Slug, nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var public domain.BlogPostDTO
	decode(t, rr, &public)
	assert.Equal(t, domain.BlogPostStatusPublished, public.Status)
	assert.NotEmpty(t, public.PublishedAt)

	rr = env.do(t, http.MethodGet, "/api/v1/blog", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, rr, &page)
	assert.Equal(t, int64(1), page.Total)
}

func coverUpload(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="cover.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestPortfolioHandler_Cover(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/portfolio", domain.CreatePortfolioItemRequest{
		Title:     "Kiln Co Shop",
		Published: true,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var item domain.PortfolioItemDTO
	decode(t, rr, &item)

	rr = env.do(t, http.MethodGet, "/api/v1/portfolio/"+item.Slug+"/cover", nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	image := []byte("\x89PNG\r\n\x1a\nfake-image")

	body, ct := coverUpload(t, "application/pdf", image)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/portfolio/"+item.ID.String()+"/cover", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("x-api-key", env.adminKey)
	rr = httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body, ct = coverUpload(t, "image/png", image)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/portfolio/"+item.ID.String()+"/cover", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("x-api-key", env.adminKey)
	rr = httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/api/v1/portfolio/"+item.Slug+"/cover", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, image, rr.Body.Bytes())

	rr = env.do(t, http.MethodGet, "/api/v1/portfolio", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/auth/tokens", domain.IssueTokenRequest{
		Subject: "grace",
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		Roles:   []string{"staff"},
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var token domain.TokenResponse
	decode(t, rr, &token)
	assert.Equal(t, "Bearer", token.TokenType)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rr = httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var me struct {
		Subject  string   `json:"subject"`
		Roles    []string `json:"roles"`
		AuthType string   `json:"authType"`
	}
	decode(t, rr, &me)
	assert.Equal(t, "grace", me.Subject)
	assert.Equal(t, []string{"staff"}, me.Roles)
	assert.Equal(t, "jwt", me.AuthType)

	// staff tokens cannot mint further tokens
	staffToken, _, err := env.tokens.Issue("grace", "Grace", "grace@example.com", []auth.Role{auth.RoleStaff})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/tokens", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rr = httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/admin/auth/tokens", domain.IssueTokenRequest{
		Subject: "x", Name: "X", Email: "x@example.com", Roles: []string{"root"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
