package qase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/RamXX/qaseio/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL, Project: "DEMO", Token: "secret"})
	require.NoError(t, err)
	return c
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "result": result})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "errorMessage": msg})
}

func TestNewRequiresProjectAndToken(t *testing.T) {
	_, err := New(Options{Token: "t"})
	require.Error(t, err)
	_, err = New(Options{Project: "DEMO"})
	require.Error(t, err)

	c, err := New(Options{Project: "DEMO", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, DefaultPageSize, c.pageSize)
}

func TestListAllPageCount(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantCalls int
	}{
		{"empty", 0, 10, 1},
		{"single partial page", 7, 10, 1},
		{"exact pages", 20, 10, 2},
		{"trailing partial page", 25, 10, 3},
		{"default limit", 250, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := ListAll(context.Background(), tt.limit, 0, func(_ context.Context, limit, offset int) ([]int, int, error) {
				calls++
				var page []int
				for i := offset; i < offset+limit && i < tt.total; i++ {
					page = append(page, i)
				}
				return page, tt.total, nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, calls)
			require.Len(t, got, tt.total)
			for i, v := range got {
				assert.Equal(t, i, v, "entities must keep API order")
			}
			assert.NotNil(t, got)
		})
	}
}

func TestListAllIsAllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	got, err := ListAll(context.Background(), 2, 0, func(_ context.Context, limit, offset int) ([]int, int, error) {
		if offset > 0 {
			return nil, 0, boom
		}
		return []int{1, 2}, 10, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestListAllStopsOnEmptyPage(t *testing.T) {
	calls := 0
	got, err := ListAll(context.Background(), 2, 0, func(_ context.Context, limit, offset int) ([]int, int, error) {
		calls++
		if offset == 0 {
			return []int{1, 2}, 100, nil
		}
		return nil, 100, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1, 2}, got)
}

func TestListCasesPaginatesAgainstFiltered(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /case/DEMO", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.Header.Get("Token"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "3", r.URL.Query().Get("suite_id"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		var entities []model.Case
		for i := offset; i < offset+limit && i < 5; i++ {
			entities = append(entities, model.Case{ID: i + 1, Title: fmt.Sprintf("case %d", i+1)})
		}
		writeResult(w, map[string]any{"total": 40, "filtered": 5, "count": len(entities), "entities": entities})
	})
	c := newTestClient(t, mux)

	cases, err := c.ListCases(context.Background(), ListOptions{Limit: 2, Filters: map[string]string{"suite_id": "3"}})
	require.NoError(t, err)
	require.Len(t, cases, 5)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 5, cases[4].ID)
}

func TestGetCaseNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /case/DEMO/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Test case not found")
	})
	c := newTestClient(t, mux)

	tc, err := c.GetCase(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, tc)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Test case not found", apiErr.Message)
	assert.Equal(t, "/case/DEMO/42", apiErr.Path)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestGetCaseRequiresID(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.GetCase(context.Background(), 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestEnvelopeStatusFalseIsAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /suite/DEMO", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":false,"errorMessage":"Data is invalid.","errorFields":[{"field":"title","error":"too long"}]}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CreateSuite(context.Background(), SuiteCreate{Title: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	require.Len(t, apiErr.Fields, 1)
	assert.Contains(t, err.Error(), "title: too long")
}

func TestNonJSONErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /run/DEMO/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream unavailable\n")
	})
	c := newTestClient(t, mux)

	_, err := c.GetRun(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestCreateSuiteSendsParent(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /suite/DEMO", func(w http.ResponseWriter, r *http.Request) {
		body = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeResult(w, map[string]any{"id": 12})
	})
	c := newTestClient(t, mux)

	parent := 4
	id, err := c.CreateSuite(context.Background(), SuiteCreate{Title: "Client Auth", ParentID: &parent})
	require.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.Equal(t, "Client Auth", body["title"])
	assert.Equal(t, float64(4), body["parent_id"])

	_, err = c.CreateSuite(context.Background(), SuiteCreate{Title: "Top"})
	require.NoError(t, err)
	_, hasParent := body["parent_id"]
	assert.False(t, hasParent, "top-level suites must not send parent_id")
}

func TestCreateRunDefaultsAutotest(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run/DEMO", func(w http.ResponseWriter, r *http.Request) {
		body = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeResult(w, map[string]any{"id": 17})
	})
	c := newTestClient(t, mux)

	id, err := c.CreateRun(context.Background(), RunCreate{
		Title:       "Nightly",
		CustomField: map[string]string{"3": "5.0.0-cb4e787"},
	})
	require.NoError(t, err)
	assert.Equal(t, 17, id)
	assert.Equal(t, true, body["is_autotest"])
	assert.Equal(t, map[string]any{"3": "5.0.0-cb4e787"}, body["custom_field"])
	_, hasDescription := body["description"]
	assert.False(t, hasDescription)

	no := false
	_, err = c.CreateRun(context.Background(), RunCreate{Title: "Manual", IsAutotest: &no})
	require.NoError(t, err)
	assert.Equal(t, false, body["is_autotest"])
}

func TestCompleteRun(t *testing.T) {
	var hit atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run/DEMO/17/complete", func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
		writeResult(w, nil)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.CompleteRun(context.Background(), 17))
	assert.True(t, hit.Load())
}

func TestUpdateCaseClearParamsSendsEmptyObject(t *testing.T) {
	var raw map[string]json.RawMessage
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /case/DEMO/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		id, _ := strconv.Atoi(r.PathValue("id"))
		writeResult(w, map[string]any{"id": id})
	})
	c := newTestClient(t, mux)

	empty := model.Params{}
	id, err := c.UpdateCase(context.Background(), 5, CaseUpdate{Params: &empty})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	assert.JSONEq(t, `{}`, string(raw["params"]))
	_, hasTitle := raw["title"]
	assert.False(t, hasTitle)
}

func TestGetMilestoneID(t *testing.T) {
	var created atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /milestone/DEMO", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		writeResult(w, map[string]any{
			"total": 2, "filtered": 2, "count": 2,
			"entities": []model.Milestone{{ID: 1, Title: "Release 1"}, {ID: 2, Title: "Release 2"}},
		})
	})
	mux.HandleFunc("POST /milestone/DEMO", func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		var body MilestoneCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "release 1", body.Title)
		writeResult(w, map[string]any{"id": 9})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	id, err := c.GetMilestoneID(ctx, "Release 2", false)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	id, err = c.GetMilestoneID(ctx, "release 1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, id, "title match is case-sensitive")
	assert.Equal(t, int32(0), created.Load())

	id, err = c.GetMilestoneID(ctx, "release 1", true)
	require.NoError(t, err)
	assert.Equal(t, 9, id)
	assert.Equal(t, int32(1), created.Load())
}

func TestSearchPaginatesAgainstTotal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `entity = "case" and project = "DEMO"`, r.URL.Query().Get("query"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		entities := []map[string]any{{"id": offset + 1}, {"id": offset + 2}}
		if offset >= 2 {
			entities = entities[:1]
		}
		writeResult(w, map[string]any{"total": 3, "entities": entities})
	})
	c := newTestClient(t, mux)

	out, err := c.Search(context.Background(), `entity = "case" and project = "DEMO"`, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.JSONEq(t, `{"id":3}`, string(out[2]))
}

func TestCreateResultValidates(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.CreateResult(context.Background(), 1, model.Result{CaseID: 3, Status: "maybe"})
	require.Error(t, err)
}

func TestBuildResult(t *testing.T) {
	tests := []struct {
		name string
		in   ResultReport
		want model.Result
	}{
		{
			name: "minimal",
			in:   ResultReport{CaseID: 71, Status: model.ResultPassed},
			want: model.Result{CaseID: 71, Status: model.ResultPassed, TimeMS: 1},
		},
		{
			name: "os only",
			in:   ResultReport{CaseID: 71, Status: model.ResultFailed, OSName: "MacOS - Ventura", DurationMS: 250},
			want: model.Result{CaseID: 71, Status: model.ResultFailed, TimeMS: 250, Param: map[string]string{"OS": "MacOS - Ventura"}},
		},
		{
			name: "all params",
			in:   ResultReport{CaseID: 1, Status: model.ResultPassed, OSName: "Win", TransMode: "Explicit", TestParams: "Browser: Chrome"},
			want: model.Result{CaseID: 1, Status: model.ResultPassed, TimeMS: 1, Param: map[string]string{
				"OS":          "Win",
				"Test params": "Transparency mode: Explicit; Other params: Browser: Chrome",
			}},
		},
		{
			name: "other params only",
			in:   ResultReport{CaseID: 1, Status: model.ResultSkipped, TestParams: "Browser: Chrome"},
			want: model.Result{CaseID: 1, Status: model.ResultSkipped, TimeMS: 1, Param: map[string]string{
				"Test params": "; Other params: Browser: Chrome",
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildResult(tt.in))
		})
	}
}

func TestBestEffortSwallowsErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusInternalServerError, "kaboom")
	}))
	b := NewBestEffort(c)
	ctx := context.Background()

	assert.Nil(t, b.GetCase(ctx, 1))
	assert.Zero(t, b.CreateSuite(ctx, SuiteCreate{Title: "x"}))
	assert.Zero(t, b.UpdateCase(ctx, 1, CaseUpdate{Title: "y"}))
	assert.Zero(t, b.DeleteCase(ctx, 1))
	assert.False(t, b.CompleteRun(ctx, 1))
	assert.Empty(t, b.ReportResult(ctx, 1, ResultReport{CaseID: 1, Status: model.ResultPassed}))
	assert.Zero(t, b.GetMilestoneID(ctx, "m", true))
	assert.Zero(t, b.CreateCase(ctx, CaseCreate{Title: "z"}))
	assert.Zero(t, b.UpdateSuite(ctx, 1, SuiteUpdate{Title: "s"}))
	assert.Zero(t, b.CreateRun(ctx, RunCreate{Title: "r"}))
	assert.Zero(t, b.CreateMilestone(ctx, "m"))
	assert.Equal(t, int32(11), calls.Load())

	assert.Nil(t, b.GetRun(ctx, 0))
	assert.Zero(t, b.CreateCase(ctx, CaseCreate{}))
	assert.Zero(t, b.CreateRun(ctx, RunCreate{}))
	assert.Zero(t, b.CreateMilestone(ctx, ""))
	assert.Equal(t, int32(11), calls.Load(), "local validation failures must not call the API")

	assert.Same(t, c, b.Client())
}
