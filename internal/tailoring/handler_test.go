package tailoring

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/history"
)

func serve(t *testing.T, svc *Service, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/tailor", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return resp, payload
}

func TestTailorEndpointSuccess(t *testing.T) {
	svc := newService(&scriptedLLM{outputs: []string{validOutput}}, history.NewMemoryRepo())

	resp, payload := serve(t, svc, `{"baseResume":"JANE DOE","jobDescription":"Go Engineer"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Dear hiring manager,", payload["coverLetter"])
	assert.NotEmpty(t, payload["entryId"])
	assert.NotEmpty(t, payload["tailoredResume"])
}

func TestTailorEndpointErrors(t *testing.T) {
	cases := []struct {
		name     string
		svc      *Service
		body     string
		status   int
		code     string
		wantsRaw bool
	}{
		{
			name:   "missing field",
			svc:    newService(&scriptedLLM{outputs: []string{validOutput}}, history.NewMemoryRepo()),
			body:   `{"baseResume":"JANE DOE"}`,
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "not json",
			svc:    newService(&scriptedLLM{outputs: []string{validOutput}}, history.NewMemoryRepo()),
			body:   `baseResume=x`,
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "misconfigured",
			svc:    newService(nil, history.NewMemoryRepo()),
			body:   `{"baseResume":"r","jobDescription":"jd"}`,
			status: http.StatusInternalServerError,
			code:   "misconfigured",
		},
		{
			name:     "unparseable output",
			svc:      newService(&scriptedLLM{outputs: []string{"Sorry, no."}}, history.NewMemoryRepo()),
			body:     `{"baseResume":"r","jobDescription":"jd"}`,
			status:   http.StatusInternalServerError,
			code:     "response_format",
			wantsRaw: true,
		},
		{
			name:     "missing cover letter",
			svc:      newService(&scriptedLLM{outputs: []string{`{"resume":"R"}`}}, history.NewMemoryRepo()),
			body:     `{"baseResume":"r","jobDescription":"jd"}`,
			status:   http.StatusInternalServerError,
			code:     "response_shape",
			wantsRaw: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, payload := serve(t, tc.svc, tc.body)
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.code, payload["code"])
			assert.NotEmpty(t, payload["error"])
			_, hasRaw := payload["rawResponse"]
			assert.Equal(t, tc.wantsRaw, hasRaw)
		})
	}
}
