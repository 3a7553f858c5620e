package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"readmore/referral/internal/config"
	"readmore/referral/internal/handler/middleware"
	"readmore/referral/internal/model"
	"readmore/referral/internal/service"
	jwtpkg "readmore/referral/pkg/jwt"
	"readmore/referral/pkg/response"
)

type stubTicketService struct {
	issueCode string
	issueErr  error
	acceptErr error

	gotCampaignID uuid.UUID
	gotOwnerID    uuid.UUID
	gotSource     model.ShareSource
	gotShareCode  string
}

func (s *stubTicketService) Issue(_ context.Context, campaignID, ownerID uuid.UUID, source model.ShareSource) (string, error) {
	s.gotCampaignID = campaignID
	s.gotOwnerID = ownerID
	s.gotSource = source
	return s.issueCode, s.issueErr
}

func (s *stubTicketService) Accept(_ context.Context, shareCode string, _ uuid.UUID) error {
	s.gotShareCode = shareCode
	return s.acceptErr
}

type stubCampaignService struct {
	total int64
	views []service.CampaignView

	gotUserID *uuid.UUID
	gotPage   int
	gotLimit  int
}

func (s *stubCampaignService) Create(context.Context, uuid.UUID, int, *int) (*model.Campaign, error) {
	return nil, nil
}

func (s *stubCampaignService) Update(context.Context, uuid.UUID, *int, *int) (*model.Campaign, error) {
	return nil, nil
}

func (s *stubCampaignService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubCampaignService) PromoteToTop(context.Context, uuid.UUID) error { return nil }

func (s *stubCampaignService) List(_ context.Context, page, limit int, userID *uuid.UUID) (int64, []service.CampaignView, error) {
	s.gotPage = page
	s.gotLimit = limit
	s.gotUserID = userID
	return s.total, s.views, nil
}

func testRouter(ts service.TicketService, cs service.CampaignService, jwtManager *jwtpkg.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		},
	}
	return SetupRouter(cfg, zap.NewNop(), jwtManager, NewTicketHandler(ts), NewCampaignHandler(cs))
}

func testJWTManager() *jwtpkg.Manager {
	return jwtpkg.NewManager("test-signing-key", "readmore-test", time.Hour)
}

func userToken(t *testing.T, m *jwtpkg.Manager, userID uuid.UUID) string {
	t.Helper()
	token, err := m.Generate(userID, nil)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestIssueRequiresAuth(t *testing.T) {
	stub := &stubTicketService{issueCode: "abc"}
	router := testRouter(stub, &stubCampaignService{}, testJWTManager())

	body := bytes.NewBufferString(`{"campaign_id":"` + uuid.NewString() + `","source":"activity"}`)
	req := httptest.NewRequest(http.MethodPost, "/friend_help", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestIssueReturnsShareCode(t *testing.T) {
	stub := &stubTicketService{issueCode: "sharecode123"}
	m := testJWTManager()
	router := testRouter(stub, &stubCampaignService{}, m)

	userID := uuid.New()
	campaignID := uuid.New()
	body := bytes.NewBufferString(`{"campaign_id":"` + campaignID.String() + `","source":"reader"}`)
	req := httptest.NewRequest(http.MethodPost, "/friend_help", body)
	req.Header.Set("Authorization", "Bearer "+userToken(t, m, userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.OK {
		t.Error("expected ok response")
	}
	if stub.gotCampaignID != campaignID || stub.gotOwnerID != userID || stub.gotSource != model.SourceReader {
		t.Errorf("service called with wrong args: %+v", stub)
	}
}

func TestIssueRejectsMalformedBody(t *testing.T) {
	stub := &stubTicketService{}
	m := testJWTManager()
	router := testRouter(stub, &stubCampaignService{}, m)

	req := httptest.NewRequest(http.MethodPost, "/friend_help", bytes.NewBufferString(`{"source":"reader"}`))
	req.Header.Set("Authorization", "Bearer "+userToken(t, m, uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Reason != "validation_error" {
		t.Errorf("expected validation_error, got %q", resp.Reason)
	}
}

func TestAcceptErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"not found", service.ErrTicketNotFound, http.StatusNotFound, "ticket_not_found"},
		{"completed", service.ErrAlreadyCompleted, http.StatusBadRequest, "already_completed"},
		{"duplicate", service.ErrDuplicateAccept, http.StatusBadRequest, "duplicate_accept"},
		{"expired", service.ErrExpired, http.StatusBadRequest, "expired"},
		{"full", service.ErrAlreadyFull, http.StatusBadRequest, "already_full"},
		{"conflict", service.ErrConflict, http.StatusConflict, "conflict"},
	}

	m := testJWTManager()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubTicketService{acceptErr: tc.err}
			router := testRouter(stub, &stubCampaignService{}, m)

			req := httptest.NewRequest(http.MethodGet, "/friend_help/accept?share_code=abc", nil)
			req.Header.Set("Authorization", "Bearer "+userToken(t, m, uuid.New()))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.OK {
				t.Error("expected ok=false")
			}
			if resp.Reason != tc.wantReason {
				t.Errorf("expected reason %q, got %q", tc.wantReason, resp.Reason)
			}
		})
	}
}

func TestAcceptRequiresShareCode(t *testing.T) {
	m := testJWTManager()
	router := testRouter(&stubTicketService{}, &stubCampaignService{}, m)

	req := httptest.NewRequest(http.MethodGet, "/friend_help/accept", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, m, uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestPublicListAnonymous(t *testing.T) {
	cs := &stubCampaignService{total: 2}
	router := testRouter(&stubTicketService{}, cs, testJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/friend_help_book/list?page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cs.gotUserID != nil {
		t.Error("expected anonymous listing")
	}
	if cs.gotPage != 2 || cs.gotLimit != 5 {
		t.Errorf("expected page=2 limit=5, got page=%d limit=%d", cs.gotPage, cs.gotLimit)
	}
}

func TestPublicListAuthenticated(t *testing.T) {
	cs := &stubCampaignService{}
	m := testJWTManager()
	router := testRouter(&stubTicketService{}, cs, m)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/friend_help_book/list", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, m, userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cs.gotUserID == nil || *cs.gotUserID != userID {
		t.Error("expected listing to carry the authenticated user")
	}
}

func TestPublicListDefaultsPagination(t *testing.T) {
	cs := &stubCampaignService{}
	router := testRouter(&stubTicketService{}, cs, testJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/friend_help_book/list?page=0&limit=-3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if cs.gotPage != 1 || cs.gotLimit != 10 {
		t.Errorf("expected defaults page=1 limit=10, got page=%d limit=%d", cs.gotPage, cs.gotLimit)
	}
}

func TestAdminRoutesRequirePermission(t *testing.T) {
	m := testJWTManager()
	router := testRouter(&stubTicketService{}, &stubCampaignService{}, m)

	// A plain user token carries no admin permissions.
	token := userToken(t, m, uuid.New())
	req := httptest.NewRequest(http.MethodDelete, "/friend_help_book/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAdminRouteWithPermission(t *testing.T) {
	m := testJWTManager()
	router := testRouter(&stubTicketService{}, &stubCampaignService{}, m)

	token, err := m.Generate(uuid.New(), []string{middleware.PermCampaignDelete})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodDelete, "/friend_help_book/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
