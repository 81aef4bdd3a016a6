package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"tmsbot/internal/llm"
	"tmsbot/internal/nl2sql"
	"tmsbot/internal/service"
	"tmsbot/internal/service/mocks"
)

func TestQueryHandler_ServeHTTP(t *testing.T) {
	history := []llm.Message{{Role: llm.RoleUser, Content: "how many batches yesterday?"}}

	tests := []struct {
		name       string
		method     string
		body       string
		mockSetup  func(*mocks.MockQueryService)
		wantStatus int
		wantDetail string
		checkBody  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful query",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"how many batches yesterday?"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().
					ProcessQuery(gomock.Any(), service.QueryRequest{History: history}).
					Return(service.QueryResponse{
						Summary:     "There were 4 batches.",
						SQLQuery:    "SELECT COUNT(*) AS n FROM PSGTMS.BATCHFILE",
						QueryResult: []map[string]any{{"n": int64(4)}},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp QueryResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Summary != "There were 4 batches." || resp.SQLQuery != "SELECT COUNT(*) AS n FROM PSGTMS.BATCHFILE" {
					t.Errorf("response = %+v", resp)
				}
				if len(resp.QueryResult) != 1 || resp.QueryResult[0]["n"] != float64(4) {
					t.Errorf("query_result = %v", resp.QueryResult)
				}
			},
		},
		{
			name:   "nil result is encoded as empty list",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"how many batches yesterday?"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{Summary: "none", SQLQuery: "SELECT 1"}, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), `"query_result":[]`) {
					t.Errorf("body = %s", w.Body.String())
				}
			},
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			body:       `{"history":`,
			mockSetup:  func(m *mocks.MockQueryService) {},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid request body",
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockQueryService) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantDetail: "Method not allowed",
		},
		{
			name:   "empty history",
			method: http.MethodPost,
			body:   `{"history":[]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, &service.ValidationError{Field: "history", Message: "History cannot be empty."})
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "History cannot be empty.",
		},
		{
			name:   "generation failure",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, &service.GenerationError{Err: nl2sql.ErrCannotAnswer})
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Failed to generate SQL: ERROR: The question cannot be answered with the available data.",
		},
		{
			name:   "generation call failure hides the upstream message",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, &service.GenerationError{
						Err: errors.New(`failed to generate SQL query: 401 Unauthorized {"error":"invalid api key sk-123"}`),
					})
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: service.GenerationUnavailableDetail,
		},
		{
			name:   "result that cannot be encoded",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{
						Summary:     "odd value",
						SQLQuery:    "SELECT CAST('NaN' AS float8) AS v",
						QueryResult: []map[string]any{{"v": math.NaN()}},
					}, nil)
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: UnexpectedErrorDetail,
		},
		{
			name:   "unsafe sql",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, &service.UnsafeQueryError{
						SQL:    "SELECT 1; DROP TABLE t",
						Reason: "Validation failed: Query contains forbidden keyword 'DROP'.",
					})
			},
			wantStatus: http.StatusForbidden,
			wantDetail: "Validation Failed: Validation failed: Query contains forbidden keyword 'DROP'.",
		},
		{
			name:   "execution failure",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, &service.ExecutionError{Err: errors.New("login failed")})
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Database execution failed: login failed",
		},
		{
			name:   "unexpected failure is opaque",
			method: http.MethodPost,
			body:   `{"history":[{"role":"user","content":"q"}]}`,
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().ProcessQuery(gomock.Any(), gomock.Any()).
					Return(service.QueryResponse{}, errors.New("secret connection string leaked"))
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: UnexpectedErrorDetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQueryService := mocks.NewMockQueryService(ctrl)
			tt.mockSetup(mockQueryService)

			handler := NewQueryHandler(mockQueryService)
			req := httptest.NewRequest(tt.method, "/query", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantDetail != "" {
				var errResp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if errResp.Detail != tt.wantDetail {
					t.Errorf("detail = %q, want %q", errResp.Detail, tt.wantDetail)
				}
			}
			if tt.checkBody != nil {
				tt.checkBody(t, w)
			}
		})
	}
}
