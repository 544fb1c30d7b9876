package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-api/internal/application/blog"
	"github.com/portfolio-api/internal/application/newsletter"
	"github.com/portfolio-api/internal/application/upload"
	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockBlogSvc struct{ mock.Mock }

func (m *mockBlogSvc) List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error) {
	args := m.Called(ctx, publishedOnly)
	return args.Get(0).([]domain.Blog), args.Error(1)
}

func (m *mockBlogSvc) Get(ctx context.Context, blogID string) (*domain.Blog, error) {
	args := m.Called(ctx, blogID)
	if b, _ := args.Get(0).(*domain.Blog); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlogSvc) Create(ctx context.Context, req domain.CreateBlogRequest) (*domain.Blog, error) {
	args := m.Called(ctx, req)
	if b, _ := args.Get(0).(*domain.Blog); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlogSvc) Update(ctx context.Context, blogID string, req domain.UpdateBlogRequest) (*domain.Blog, error) {
	args := m.Called(ctx, blogID, req)
	if b, _ := args.Get(0).(*domain.Blog); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlogSvc) Delete(ctx context.Context, blogID string) error {
	return m.Called(ctx, blogID).Error(0)
}

func (m *mockBlogSvc) SendNewsletter(ctx context.Context, blogID string) (*blog.NewsletterResult, error) {
	args := m.Called(ctx, blogID)
	if r, _ := args.Get(0).(*blog.NewsletterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNewsletterSvc struct{ mock.Mock }

func (m *mockNewsletterSvc) Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscriber, bool, error) {
	args := m.Called(ctx, req)
	sub, _ := args.Get(0).(*domain.Subscriber)
	return sub, args.Bool(1), args.Error(2)
}

func (m *mockNewsletterSvc) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Subscriber), args.Error(1)
}

func (m *mockNewsletterSvc) Delete(ctx context.Context, subscriberID string) error {
	return m.Called(ctx, subscriberID).Error(0)
}

func (m *mockNewsletterSvc) Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockNewsletterSvc) Stats(ctx context.Context) (*domain.SubscriberStats, error) {
	args := m.Called(ctx)
	if s, _ := args.Get(0).(*domain.SubscriberStats); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type stubUploadSvc struct {
	got        upload.Input
	deletedKey string
	url        string
	err        error
}

func (s *stubUploadSvc) UploadImage(_ context.Context, in upload.Input) (string, error) {
	s.got = in
	if in.Reader != nil {
		_, _ = io.ReadAll(in.Reader)
	}
	return s.url, s.err
}

func (s *stubUploadSvc) DeleteImage(_ context.Context, key string) error {
	s.deletedKey = key
	return s.err
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, v string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", v)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- errors ---

func TestHTTPError_Mapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("blogs 01J: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{fmt.Errorf("cannot send newsletter for unpublished blog: %w", domain.ErrBadRequest), http.StatusBadRequest, "cannot send newsletter for unpublished blog"},
		{fmt.Errorf("already subscribed to the newsletter: %w", domain.ErrConflict), http.StatusConflict, "already subscribed to the newsletter"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{fmt.Errorf("smtp: %w", domain.ErrDeliveryFailed), http.StatusBadGateway, "upstream service unavailable, please retry"},
		{fmt.Errorf("scan blogs: throttled: %w", domain.ErrInternal), http.StatusInternalServerError, "internal server error"},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		httpError(rr, tt.err)
		assert.Equal(t, tt.status, rr.Code, tt.err.Error())
		assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.message), rr.Body.String())
	}
}

// --- blogs ---

func TestBlogGet_MalformedIDNeverReachesService(t *testing.T) {
	svc := &mockBlogSvc{}
	h := NewBlogHandler(svc)
	rr := httptest.NewRecorder()
	h.Get(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/blogs/xyz", nil), "xyz"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"invalid id format"}`, rr.Body.String())
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestBlogGet_NotFound(t *testing.T) {
	blogID := id.New()
	svc := &mockBlogSvc{}
	svc.On("Get", mock.Anything, blogID).Return(nil, fmt.Errorf("blogs %s: %w", blogID, domain.ErrNotFound))
	h := NewBlogHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/blogs/"+blogID, nil), blogID))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}

func TestBlogList_PublishedQuery(t *testing.T) {
	svc := &mockBlogSvc{}
	svc.On("List", mock.Anything, true).Return([]domain.Blog{{BlogID: "b1", Title: "Hello"}}, nil)
	h := NewBlogHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/blogs?published=true", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Hello"`)
	svc.AssertExpectations(t)
}

func TestBlogCreate_ValidationError(t *testing.T) {
	svc := &mockBlogSvc{}
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("field 'title' failed 'required': %w", domain.ErrBadRequest))
	h := NewBlogHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, jsonReq(t, http.MethodPost, "/api/admin/blogs", domain.CreateBlogRequest{}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"field 'title' failed 'required'"}`, rr.Body.String())
}

func TestBlogSendNewsletter(t *testing.T) {
	blogID := id.New()
	svc := &mockBlogSvc{}
	svc.On("SendNewsletter", mock.Anything, blogID).Return(&blog.NewsletterResult{Message: "sent", SentTo: 3, BlogTitle: "Hi"}, nil)
	h := NewBlogHandler(svc)

	rr := httptest.NewRecorder()
	h.SendNewsletter(rr, withChiID(httptest.NewRequest(http.MethodPost, "/api/admin/blogs/"+blogID+"/newsletter", nil), blogID))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"sent","sentTo":3,"failed":0,"blogTitle":"Hi"}`, rr.Body.String())
}

// --- newsletter ---

func TestSubscribe_CreatedVsReactivated(t *testing.T) {
	req := domain.SubscribeRequest{Email: "a@x.com", Name: "Ada"}
	for _, tt := range []struct {
		created bool
		status  int
	}{{true, http.StatusCreated}, {false, http.StatusOK}} {
		svc := &mockNewsletterSvc{}
		svc.On("Subscribe", mock.Anything, req).Return(&domain.Subscriber{SubscriberID: "s1", Email: "a@x.com", Active: true}, tt.created, nil)
		h := NewNewsletterHandler(svc)

		rr := httptest.NewRecorder()
		h.Subscribe(rr, jsonReq(t, http.MethodPost, "/api/newsletter", req))
		assert.Equal(t, tt.status, rr.Code)
		assert.NotContains(t, rr.Body.String(), "token")
	}
}

func TestSubscribe_AlreadyActive(t *testing.T) {
	svc := &mockNewsletterSvc{}
	svc.On("Subscribe", mock.Anything, mock.Anything).Return(nil, false, fmt.Errorf("already subscribed to the newsletter: %w", domain.ErrConflict))
	h := NewNewsletterHandler(svc)

	rr := httptest.NewRecorder()
	h.Subscribe(rr, jsonReq(t, http.MethodPost, "/api/newsletter", domain.SubscribeRequest{Email: "a@x.com"}))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUnsubscribe_JSONBody(t *testing.T) {
	svc := &mockNewsletterSvc{}
	svc.On("Unsubscribe", mock.Anything, domain.UnsubscribeRequest{Email: "a+b@x.com", Token: "tok"}).Return(nil)
	h := NewNewsletterHandler(svc)

	rr := httptest.NewRecorder()
	h.Unsubscribe(rr, jsonReq(t, http.MethodPost, "/api/newsletter/unsubscribe", domain.UnsubscribeRequest{Email: "a+b@x.com", Token: "tok"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUnsubscribe_QueryParamsIgnored(t *testing.T) {
	svc := &mockNewsletterSvc{}
	h := NewNewsletterHandler(svc)

	rr := httptest.NewRecorder()
	h.Unsubscribe(rr, httptest.NewRequest(http.MethodPost, "/api/newsletter/unsubscribe?email=a%40x.com&token=tok", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestUnsubscribe_BadToken(t *testing.T) {
	svc := &mockNewsletterSvc{}
	svc.On("Unsubscribe", mock.Anything, mock.Anything).Return(fmt.Errorf("subscription not found: %w", domain.ErrNotFound))
	h := NewNewsletterHandler(svc)

	rr := httptest.NewRecorder()
	h.Unsubscribe(rr, jsonReq(t, http.MethodPost, "/api/newsletter/unsubscribe", domain.UnsubscribeRequest{Email: "a@x.com", Token: "nope"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewsletterList_CountEnvelope(t *testing.T) {
	svc := &mockNewsletterSvc{}
	svc.On("ListActive", mock.Anything).Return([]domain.Subscriber{{SubscriberID: "s1"}, {SubscriberID: "s2"}}, nil)
	h := NewNewsletterHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/admin/newsletter", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), decodeBody(t, rr)["count"])
}

// --- uploads ---

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage_Success(t *testing.T) {
	svc := &stubUploadSvc{url: "https://cdn.example.com/uploads/x.png"}
	h := NewUploadHandler(svc)

	rr := httptest.NewRecorder()
	h.Image(rr, multipartImage(t, "file", "cat.png", "image/png", []byte("\x89PNG....")))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"url":"https://cdn.example.com/uploads/x.png"}`, rr.Body.String())
	assert.Equal(t, "cat.png", svc.got.Filename)
	assert.Equal(t, "image/png", svc.got.ContentType)
	assert.Equal(t, int64(8), svc.got.Size)
}

func TestUploadImage_MissingField(t *testing.T) {
	h := NewUploadHandler(&stubUploadSvc{})
	rr := httptest.NewRecorder()
	h.Image(rr, multipartImage(t, "other", "cat.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImage_RejectedByService(t *testing.T) {
	h := NewUploadHandler(&stubUploadSvc{err: fmt.Errorf("only image uploads are allowed: %w", domain.ErrBadRequest)})
	rr := httptest.NewRecorder()
	h.Image(rr, multipartImage(t, "file", "doc.pdf", "application/pdf", []byte("%PDF")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"only image uploads are allowed"}`, rr.Body.String())
}

func TestDeleteImage_PassesKey(t *testing.T) {
	svc := &stubUploadSvc{}
	h := NewUploadHandler(svc)
	rr := httptest.NewRecorder()
	h.DeleteImage(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/uploads?key=uploads%2Fx.png", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uploads/x.png", svc.deletedKey)
}

// --- health ---

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func healthReq(action string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	req := httptest.NewRequest(http.MethodGet, "/health-check/"+action, nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		action string
		status int
		body   string
	}{
		{"ping", nil, "ping", http.StatusOK, `{"message":"pong"}`},
		{"ready without store", nil, "ready", http.StatusOK, `{"message":"ready"}`},
		{"ready", stubPinger{}, "ready", http.StatusOK, `{"message":"ready"}`},
		{"store down", stubPinger{err: io.ErrClosedPipe}, "ready", http.StatusServiceUnavailable, `{"message":"database unavailable"}`},
		{"unknown", nil, "nope", http.StatusBadRequest, `{"message":"unknown action"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tt.store).Ping(rr, healthReq(tt.action))
			assert.Equal(t, tt.status, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

var _ newsletter.Service = (*mockNewsletterSvc)(nil)
var _ blog.Service = (*mockBlogSvc)(nil)
