package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/mock"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/renderer"
	"github.com/fhuszti/medias-conversion-ms/internal/usecase/conversion"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

func TestGetConversionHandler(t *testing.T) {
	id := uuid.NewUUID()
	tests := []struct {
		name         string
		ctxID        bool
		out          *model.Conversion
		svcErr       error
		wantStatus   int
		wantNoStore  bool
		wantSvcCalls bool
	}{
		{
			name:       "missing ID",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:         "not found",
			ctxID:        true,
			svcErr:       conversion.ErrConversionNotFound,
			wantStatus:   http.StatusNotFound,
			wantSvcCalls: true,
		},
		{
			name:         "service error",
			ctxID:        true,
			svcErr:       errors.New("redis down"),
			wantStatus:   http.StatusInternalServerError,
			wantSvcCalls: true,
		},
		{
			name:         "processing",
			ctxID:        true,
			out:          &model.Conversion{ID: id, Status: model.ConversionStatusProcessing, JobID: "job-1"},
			wantStatus:   http.StatusOK,
			wantNoStore:  true,
			wantSvcCalls: true,
		},
		{
			name:         "finished",
			ctxID:        true,
			out:          &model.Conversion{ID: id, Status: model.ConversionStatusFinished, JobID: "job-1"},
			wantStatus:   http.StatusOK,
			wantSvcCalls: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := &mock.MockConversionGetter{Out: tc.out, Err: tc.svcErr}
			h := GetConversionHandler(renderer.NewHTTPRenderer(), mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/conversions/"+id.String(), nil)
			if tc.ctxID {
				req = req.WithContext(api_context.WithConversionID(req.Context(), id))
			}
			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if mockSvc.Called != tc.wantSvcCalls {
				t.Errorf("service called = %v; want %v", mockSvc.Called, tc.wantSvcCalls)
			}
			if tc.wantSvcCalls && mockSvc.ID != id {
				t.Errorf("service got ID %s; want %s", mockSvc.ID, id)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			noStore := strings.HasPrefix(rec.Header().Get("Cache-Control"), "no-store")
			if noStore != tc.wantNoStore {
				t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
			}
			if rec.Header().Get("ETag") == "" {
				t.Error("missing ETag")
			}
			var got model.Conversion
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if got.ID != id || got.Status != tc.out.Status || got.JobID != "job-1" {
				t.Errorf("body = %+v", got)
			}
		})
	}
}

func TestGetConversionHandler_NotModified(t *testing.T) {
	id := uuid.NewUUID()
	mockSvc := &mock.MockConversionGetter{Out: &model.Conversion{ID: id, Status: model.ConversionStatusFinished}}
	h := GetConversionHandler(renderer.NewHTTPRenderer(), mockSvc)

	newReq := func(etag string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/conversions/"+id.String(), nil)
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		return req.WithContext(api_context.WithConversionID(req.Context(), id))
	}

	first := httptest.NewRecorder()
	h(first, newReq(""))
	etag := first.Header().Get("ETag")
	if first.Code != http.StatusOK || etag == "" {
		t.Fatalf("first response: status %d, ETag %q", first.Code, etag)
	}
	if cc := first.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}

	second := httptest.NewRecorder()
	h(second, newReq(etag))
	if second.Code != http.StatusNotModified {
		t.Fatalf("status = %d; want %d", second.Code, http.StatusNotModified)
	}
	if second.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", second.Body.String())
	}

	stale := httptest.NewRecorder()
	h(stale, newReq(`"0000000000000000"`))
	if stale.Code != http.StatusOK {
		t.Errorf("stale ETag status = %d; want %d", stale.Code, http.StatusOK)
	}
}

func TestFallbackHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundHandler()(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("404 handler status = %d", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil || er.Error == "" {
		t.Errorf("404 body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	MethodNotAllowedHandler()(rec, httptest.NewRequest(http.MethodDelete, "/conversions/images", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("405 handler status = %d", rec.Code)
	}
	er = ErrorResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil || !strings.Contains(er.Error, "DELETE") {
		t.Errorf("405 body = %q", rec.Body.String())
	}
}
