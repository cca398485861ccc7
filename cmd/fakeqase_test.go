package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/RamXX/qaseio/internal/model"
)

// fakeQase is an in-memory Qase project served over HTTP.
type fakeQase struct {
	mu      sync.Mutex
	nextID  int
	suites  map[int]model.Suite
	cases   map[int]model.Case
	runs    map[int]model.Run
	results map[int][]model.Result
}

func newFakeQase(t *testing.T) (*fakeQase, string) {
	t.Helper()
	f := &fakeQase{
		nextID:  100,
		suites:  map[int]model.Suite{},
		cases:   map[int]model.Case{},
		runs:    map[int]model.Run{},
		results: map[int][]model.Result{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /suite/{code}", f.listSuites)
	mux.HandleFunc("POST /suite/{code}", f.createSuite)
	mux.HandleFunc("GET /case/{code}", f.listCases)
	mux.HandleFunc("GET /case/{code}/{id}", f.getCase)
	mux.HandleFunc("PATCH /case/{code}/{id}", f.updateCase)
	mux.HandleFunc("POST /run/{code}", f.createRun)
	mux.HandleFunc("GET /run/{code}/{id}", f.getRun)
	mux.HandleFunc("POST /run/{code}/{id}/complete", f.completeRun)
	mux.HandleFunc("POST /result/{code}/{id}", f.createResult)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func (f *fakeQase) addSuite(s model.Suite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suites[s.ID] = s
}

func (f *fakeQase) addCase(c model.Case) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cases[c.ID] = c
}

func (f *fakeQase) suiteByTitle(title string) (model.Suite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.suites {
		if s.Title == title {
			return s, true
		}
	}
	return model.Suite{}, false
}

// getCaseState returns a copy of the stored case.
func (f *fakeQase) getCaseState(id int) *model.Case {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cases[id]
	return &c
}

func (f *fakeQase) id() int {
	f.nextID++
	return f.nextID
}

func writeOK(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "result": result})
}

func writeFail(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "errorMessage": msg})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "bad id")
		return 0, false
	}
	return id, true
}

// page serves one window of sorted entities, honoring limit and offset.
func page[T any](w http.ResponseWriter, r *http.Request, all []T) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 100
	}
	end := min(offset+limit, len(all))
	window := []T{}
	if offset < len(all) {
		window = all[offset:end]
	}
	writeOK(w, map[string]any{"total": len(all), "filtered": len(all), "count": len(window), "entities": window})
}

func (f *fakeQase) listSuites(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	all := make([]model.Suite, 0, len(f.suites))
	for _, s := range f.suites {
		all = append(all, s)
	}
	f.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page(w, r, all)
}

func (f *fakeQase) createSuite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string `json:"title"`
		ParentID *int   `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeFail(w, http.StatusBadRequest, "title is required")
		return
	}
	f.mu.Lock()
	id := f.id()
	f.suites[id] = model.Suite{ID: id, Title: body.Title, ParentID: body.ParentID}
	f.mu.Unlock()
	writeOK(w, map[string]int{"id": id})
}

func (f *fakeQase) listCases(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	all := make([]model.Case, 0, len(f.cases))
	for _, c := range f.cases {
		all = append(all, c)
	}
	f.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page(w, r, all)
}

func (f *fakeQase) getCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	c, found := f.cases[id]
	f.mu.Unlock()
	if !found {
		writeFail(w, http.StatusNotFound, "Test case not found")
		return
	}
	writeOK(w, c)
}

func (f *fakeQase) updateCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		SuiteID *int          `json:"suite_id"`
		Params  *model.Params `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, found := f.cases[id]
	if !found {
		writeFail(w, http.StatusNotFound, "Test case not found")
		return
	}
	if body.SuiteID != nil {
		c.SuiteID = body.SuiteID
	}
	if body.Params != nil {
		c.Params = *body.Params
	}
	f.cases[id] = c
	writeOK(w, map[string]int{"id": id})
}

func (f *fakeQase) createRun(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
		Cases []int  `json:"cases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeFail(w, http.StatusBadRequest, "title is required")
		return
	}
	f.mu.Lock()
	id := f.id()
	f.runs[id] = model.Run{ID: id, Title: body.Title, Cases: body.Cases, Status: model.RunActive}
	f.mu.Unlock()
	writeOK(w, map[string]int{"id": id})
}

func (f *fakeQase) getRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	run, found := f.runs[id]
	f.mu.Unlock()
	if !found {
		writeFail(w, http.StatusNotFound, "Run not found")
		return
	}
	writeOK(w, run)
}

func (f *fakeQase) completeRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	run, found := f.runs[id]
	if !found {
		writeFail(w, http.StatusNotFound, "Run not found")
		return
	}
	run.Status = model.RunComplete
	f.runs[id] = run
	writeOK(w, nil)
}

func (f *fakeQase) createResult(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var res model.Result
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.runs[id]; !found {
		writeFail(w, http.StatusNotFound, "Run not found")
		return
	}
	f.results[id] = append(f.results[id], res)
	writeOK(w, map[string]any{"case_id": res.CaseID, "hash": fmt.Sprintf("hash-%d-%d", id, len(f.results[id]))})
}
