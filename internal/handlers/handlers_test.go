package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lactalog-backend/internal/auth"
	"lactalog-backend/internal/config"
	"lactalog-backend/internal/health"
	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/session"
	"lactalog-backend/internal/upstream"
	"lactalog-backend/internal/viewmodels"

	"github.com/gorilla/mux"
)

// fixture is an in-memory stand-in for the upstream dairy API plus a fully
// wired dashboard router in front of it.
type fixture struct {
	upstream *httptest.Server
	router   *mux.Router

	users      []*models.User
	clientes   []*models.Cliente
	transports []*models.Transport
	analyses   []*models.Analysis

	// when non-zero, GET /transporte/{id} answers with this status instead
	transportGetStatus int
}

func boolPtr(b bool) *bool { return &b }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users: []*models.User{
			{UserID: 1, Name: "Ana", Email: "ana@lactalog.test", Role: models.RoleAdmin},
			{UserID: 2, Name: "Bruno", Email: "bruno@lactalog.test", Role: models.RoleCliente, ClienteID: 10},
			{UserID: 3, Name: "Carla", Email: "carla@lactalog.test", Role: models.RoleStaff},
			{UserID: 4, Name: "Diego", Email: "diego@lactalog.test", Role: models.RoleDriver},
		},
		clientes: []*models.Cliente{
			{ClienteID: 10, Name: "Tambo Norte"},
			{ClienteID: 20, Name: "Tambo Sur"},
		},
		transports: []*models.Transport{
			{TransportID: 1, ClienteID: 10, CreatedByUserID: 4, TransportedAt: time.Now().Add(-48 * time.Hour), Liters: 1000, Version: 1},
			{TransportID: 2, ClienteID: 20, CreatedByUserID: 4, TransportedAt: time.Now().Add(-24 * time.Hour), Liters: 500, Anomaly: true, Version: 1},
			{TransportID: 3, ClienteID: 10, CreatedByUserID: 4, TransportedAt: time.Now(), Liters: 800, Closed: true, Version: 2},
		},
		analyses: []*models.Analysis{
			{AnalysisID: 1, TransportID: 1, AnalyzedAt: time.Now().Add(-47 * time.Hour), Version: 1,
				Measurements: models.Measurements{FatPct: 4.5, FatGrams: 45}},
			{AnalysisID: 2, TransportID: 3, AnalyzedAt: time.Now(), Closed: true, Version: 1},
		},
	}

	f.upstream = httptest.NewServer(http.HandlerFunc(f.serveUpstream))
	t.Cleanup(f.upstream.Close)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "lactalog-backend"
	cfg.Session.TTLMinutes = 60
	cfg.Report.EmbedURL = "https://app.powerbi.com/view?r=test"

	client := upstream.New(f.upstream.URL, 5*time.Second)
	store := session.NewStore(cfg, client)
	sessions := session.NewManager(cfg, client, store, auth.NewJWTManager(cfg))

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	f.router = newTestRouter(cfg, client, sessions, authMiddleware)
	return f
}

// newTestRouter wires the same surface main assembles, minus archiving.
func newTestRouter(cfg *config.Config, client *upstream.Client, sessions *session.Manager, am *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()

	authHandler := NewAuthHandler(sessions)
	transportHandler := NewTransportHandler()
	analysisHandler := NewAnalysisHandler(nil)
	userHandler := NewUserHandler()
	clienteHandler := NewClienteHandler()
	dashboardHandler := NewDashboardHandler()
	reportHandler := NewReportHandler(cfg)
	healthHandler := NewHealthHandler(health.NewHealthChecker(client))

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/status", authHandler.Status).Methods("GET")
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(am.Authenticate)
	api.HandleFunc("/session/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/dashboard", dashboardHandler.Summary).Methods("GET")
	api.HandleFunc("/transports", transportHandler.List).Methods("GET")
	api.HandleFunc("/transports/{id}", transportHandler.Get).Methods("GET")
	api.HandleFunc("/transports/{id}", am.RequireNonClient(http.HandlerFunc(transportHandler.Update)).ServeHTTP).Methods("PUT")
	api.HandleFunc("/transports/{id}/close", am.RequireNonClient(http.HandlerFunc(transportHandler.Close)).ServeHTTP).Methods("PATCH")
	api.HandleFunc("/transports/{id}/reopen", am.RequireAdmin(http.HandlerFunc(transportHandler.Reopen)).ServeHTTP).Methods("PATCH")
	api.HandleFunc("/transports/{id}/verify-anomaly", am.RequireNonClient(http.HandlerFunc(transportHandler.VerifyAnomaly)).ServeHTTP).Methods("PATCH")
	api.HandleFunc("/transports/{id}/seize", am.RequireAdmin(http.HandlerFunc(transportHandler.Seize)).ServeHTTP).Methods("PATCH")
	api.HandleFunc("/analyses", analysisHandler.List).Methods("GET")
	api.HandleFunc("/analyses/{id}", analysisHandler.Detail).Methods("GET")
	api.HandleFunc("/analyses/{id}", am.RequireNonClient(http.HandlerFunc(analysisHandler.Update)).ServeHTTP).Methods("PUT")
	api.HandleFunc("/users", am.RequireNonClient(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	api.HandleFunc("/clientes", clienteHandler.List).Methods("GET")
	api.HandleFunc("/clientes", am.RequireNonClient(http.HandlerFunc(clienteHandler.Create)).ServeHTTP).Methods("POST")
	api.HandleFunc("/report", reportHandler.Embed).Methods("GET")

	return r
}

func (f *fixture) serveUpstream(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/ping":
		w.Write([]byte(`{"ping":"pong"}`))
	case path == "/token":
		r.ParseForm()
		if r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	case path == "/usuarios/":
		json.NewEncoder(w).Encode(f.users)
	case path == "/clientes/":
		json.NewEncoder(w).Encode(f.clientes)
	case path == "/transporte/":
		json.NewEncoder(w).Encode(f.transports)
	case path == "/analisis/":
		json.NewEncoder(w).Encode(f.analyses)
	case strings.HasPrefix(path, "/usuarios/"):
		f.serveUser(w, r, strings.TrimPrefix(path, "/usuarios/"))
	case strings.HasPrefix(path, "/transporte/"):
		f.serveTransport(w, r, strings.TrimPrefix(path, "/transporte/"))
	case strings.HasPrefix(path, "/analisis/"):
		f.serveAnalysis(w, r, strings.TrimPrefix(path, "/analisis/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fixture) serveUser(w http.ResponseWriter, r *http.Request, rest string) {
	var id int
	fmt.Sscanf(rest, "%d", &id)
	for _, u := range f.users {
		if u.UserID == id {
			json.NewEncoder(w).Encode(u)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *fixture) serveTransport(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.SplitN(rest, "/", 2)
	var id int
	fmt.Sscanf(parts[0], "%d", &id)

	var record *models.Transport
	for _, t := range f.transports {
		if t.TransportID == id {
			record = t
			break
		}
	}
	if record == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if len(parts) == 2 && r.Method == http.MethodPatch {
		switch parts[1] {
		case "cerrar":
			record.Closed = true
		case "reabrir":
			record.Closed = false
		case "verificar_anomalia":
			record.AnomalyVerified = boolPtr(true)
		case "decomiso":
			record.Seized = true
			record.Closed = true
		}
		w.Write([]byte(`{}`))
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.transportGetStatus != 0 {
			w.WriteHeader(f.transportGetStatus)
			return
		}
		json.NewEncoder(w).Encode(record)
	case http.MethodPut:
		var updated models.Transport
		json.NewDecoder(r.Body).Decode(&updated)
		*record = updated
		w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fixture) serveAnalysis(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.SplitN(rest, "/", 2)
	var id int
	fmt.Sscanf(parts[0], "%d", &id)

	var record *models.Analysis
	for _, a := range f.analyses {
		if a.AnalysisID == id {
			record = a
			break
		}
	}
	if record == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(record)
	case http.MethodPut:
		var req models.UpdateAnalysisRequest
		json.NewDecoder(r.Body).Decode(&req)
		record.Measurements = req.Measurements
		record.Version = req.Version
		w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// login runs the real login flow and returns the dashboard bearer token.
func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()

	body, _ := json.Marshal(models.LoginRequest{Email: email, Password: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, rr.Code, rr.Body.String())
	}
	var resp models.AuthResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	return resp.Token
}

func (f *fixture) do(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	token := f.login(t, "ana@lactalog.test")

	rr := f.do(t, token, http.MethodGet, "/api/session/me", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: status %d", rr.Code)
	}
	var me map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &me)
	if me["email"] != "ana@lactalog.test" {
		t.Fatalf("me = %v", me)
	}
}

func TestLoginDeniedForDriver(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(models.LoginRequest{Email: "diego@lactalog.test", Password: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("driver login: status %d, want 403", rr.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "", http.MethodGet, "/api/transports", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rr.Code)
	}
}

func TestTransportListJoinsAndScopes(t *testing.T) {
	f := newFixture(t)

	adminToken := f.login(t, "ana@lactalog.test")
	rr := f.do(t, adminToken, http.MethodGet, "/api/transports", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status %d", rr.Code)
	}
	var rows []viewmodels.TransportRow
	json.Unmarshal(rr.Body.Bytes(), &rows)
	if len(rows) != 3 {
		t.Fatalf("admin sees %d rows, want 3", len(rows))
	}
	if rows[0].ClienteName != "Tambo Norte" {
		t.Fatalf("join missing: %q", rows[0].ClienteName)
	}

	clientToken := f.login(t, "bruno@lactalog.test")
	rr = f.do(t, clientToken, http.MethodGet, "/api/transports", nil)
	rows = nil
	json.Unmarshal(rr.Body.Bytes(), &rows)
	if len(rows) != 2 {
		t.Fatalf("cliente sees %d rows, want only its own 2", len(rows))
	}

	rr = f.do(t, adminToken, http.MethodGet, "/api/transports?category=anomalousNotVerified", nil)
	rows = nil
	json.Unmarshal(rr.Body.Bytes(), &rows)
	if len(rows) != 1 || rows[0].TransportID != 2 {
		t.Fatalf("category filter failed: %d rows", len(rows))
	}

	rr = f.do(t, adminToken, http.MethodGet, "/api/transports?category=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bogus category: status %d, want 400", rr.Code)
	}
}

func TestClientCannotMutate(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "bruno@lactalog.test")

	rr := f.do(t, token, http.MethodPatch, "/api/transports/1/close", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("client close: status %d, want 403", rr.Code)
	}

	rr = f.do(t, token, http.MethodGet, "/api/transports/2", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("client reading another cliente's record: status %d, want 403", rr.Code)
	}
}

func TestCloseAndReopen(t *testing.T) {
	f := newFixture(t)
	staffToken := f.login(t, "carla@lactalog.test")
	adminToken := f.login(t, "ana@lactalog.test")

	rr := f.do(t, staffToken, http.MethodPatch, "/api/transports/1/close", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("staff close: status %d: %s", rr.Code, rr.Body.String())
	}
	if !f.transports[0].Closed {
		t.Fatalf("close not forwarded upstream")
	}

	// Reopen is admin-only at the router.
	rr = f.do(t, staffToken, http.MethodPatch, "/api/transports/1/reopen", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("staff reopen: status %d, want 403", rr.Code)
	}

	rr = f.do(t, adminToken, http.MethodPatch, "/api/transports/1/reopen", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin reopen: status %d", rr.Code)
	}
	if f.transports[0].Closed {
		t.Fatalf("reopen not forwarded upstream")
	}
}

func TestVerifyAnomalyRequiresNote(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "carla@lactalog.test")

	rr := f.do(t, token, http.MethodPatch, "/api/transports/2/verify-anomaly",
		models.VerifyAnomalyRequest{AnomalyNote: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank note: status %d, want 400", rr.Code)
	}

	rr = f.do(t, token, http.MethodPatch, "/api/transports/2/verify-anomaly",
		models.VerifyAnomalyRequest{AnomalyNote: "sensor fault confirmed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("verify: status %d: %s", rr.Code, rr.Body.String())
	}
	if !f.transports[1].AnomalyIsVerified() {
		t.Fatalf("verification not forwarded upstream")
	}

	// One-shot: a second verification is refused.
	rr = f.do(t, token, http.MethodPatch, "/api/transports/2/verify-anomaly",
		models.VerifyAnomalyRequest{AnomalyNote: "again"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("re-verify: status %d, want 403", rr.Code)
	}
}

func TestSeizeIsAdminOnlyAndTerminal(t *testing.T) {
	f := newFixture(t)
	staffToken := f.login(t, "carla@lactalog.test")
	adminToken := f.login(t, "ana@lactalog.test")

	rr := f.do(t, staffToken, http.MethodPatch, "/api/transports/1/seize",
		models.SeizeTransportRequest{SeizureNote: "contaminated"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("staff seize: status %d, want 403", rr.Code)
	}

	rr = f.do(t, adminToken, http.MethodPatch, "/api/transports/1/seize",
		models.SeizeTransportRequest{SeizureNote: "contaminated"})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin seize: status %d: %s", rr.Code, rr.Body.String())
	}
	if !f.transports[0].Seized {
		t.Fatalf("seizure not forwarded upstream")
	}

	// Terminal: even the admin cannot act on the record anymore.
	rr = f.do(t, adminToken, http.MethodPatch, "/api/transports/1/reopen", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("post-seizure reopen: status %d, want 403", rr.Code)
	}
	rr = f.do(t, adminToken, http.MethodPut, "/api/transports/1", f.transports[0])
	if rr.Code != http.StatusConflict {
		t.Fatalf("post-seizure edit: status %d, want 409", rr.Code)
	}
}

func TestAnalysisUpdateRecomputesAndBumpsVersion(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "carla@lactalog.test")

	rr := f.do(t, token, http.MethodPut, "/api/analyses/1", models.Measurements{
		FatPct:     4.2,
		ProteinPct: 3.4,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rr.Code, rr.Body.String())
	}

	a := f.analyses[0]
	if a.Version != 2 {
		t.Fatalf("Version = %d, want 2", a.Version)
	}
	if a.FatGrams != 42 { // 1000 l at 4.2%
		t.Fatalf("FatGrams = %v, want 42", a.FatGrams)
	}
	if a.ProteinGrams != 34 {
		t.Fatalf("ProteinGrams = %v, want 34", a.ProteinGrams)
	}
}

func TestAnalysisUpdateAbortsWhenTransportFetchFails(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "carla@lactalog.test")

	f.transportGetStatus = http.StatusInternalServerError
	rr := f.do(t, token, http.MethodPut, "/api/analyses/1", models.Measurements{FatPct: 4.2})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("update with broken transport fetch: status %d, want 502", rr.Code)
	}

	a := f.analyses[0]
	if a.Version != 1 || a.FatGrams != 45 {
		t.Fatalf("record changed despite aborted edit: Version=%d FatGrams=%v", a.Version, a.FatGrams)
	}
}

func TestAnalysisUpdateWithoutParentKeepsDerived(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "carla@lactalog.test")

	f.transportGetStatus = http.StatusNotFound
	rr := f.do(t, token, http.MethodPut, "/api/analyses/1", models.Measurements{FatPct: 4.2})
	if rr.Code != http.StatusOK {
		t.Fatalf("orphan update: status %d: %s", rr.Code, rr.Body.String())
	}

	a := f.analyses[0]
	if a.Version != 2 {
		t.Fatalf("Version = %d, want 2", a.Version)
	}
	if a.FatPct != 4.2 {
		t.Fatalf("FatPct = %v, want 4.2", a.FatPct)
	}
	if a.FatGrams != 45 {
		t.Fatalf("FatGrams = %v, want the previous 45 preserved", a.FatGrams)
	}
}

func TestClosedAnalysisRejectsEdit(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "carla@lactalog.test")

	rr := f.do(t, token, http.MethodPut, "/api/analyses/2", models.Measurements{FatPct: 4.0})
	if rr.Code != http.StatusConflict {
		t.Fatalf("closed edit: status %d, want 409", rr.Code)
	}
}

func TestAnalysisDetail(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "ana@lactalog.test")

	rr := f.do(t, token, http.MethodGet, "/api/analyses/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("detail: status %d: %s", rr.Code, rr.Body.String())
	}
	var detail viewmodels.AnalysisDetail
	json.Unmarshal(rr.Body.Bytes(), &detail)
	if detail.ClienteName != "Tambo Norte" {
		t.Fatalf("ClienteName = %q", detail.ClienteName)
	}
	if detail.Transport == nil || detail.Transport.Liters != 1000 {
		t.Fatalf("parent transport not loaded")
	}
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "ana@lactalog.test")

	rr := f.do(t, token, http.MethodGet, "/api/dashboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d: %s", rr.Code, rr.Body.String())
	}
	var s viewmodels.Summary
	json.Unmarshal(rr.Body.Bytes(), &s)

	if s.DriverCount != 1 {
		t.Fatalf("DriverCount = %d, want 1", s.DriverCount)
	}
	if s.ClienteCount != 2 {
		t.Fatalf("ClienteCount = %d, want 2", s.ClienteCount)
	}
	if s.OpenTransports != 2 {
		t.Fatalf("OpenTransports = %d, want 2", s.OpenTransports)
	}
	if s.UnverifiedTransportAnomalies != 1 {
		t.Fatalf("UnverifiedTransportAnomalies = %d, want 1", s.UnverifiedTransportAnomalies)
	}
	if s.UnverifiedAnalysisAnomalies != 0 {
		t.Fatalf("UnverifiedAnalysisAnomalies = %d, want 0", s.UnverifiedAnalysisAnomalies)
	}
	if len(s.Days) == 0 {
		t.Fatalf("expected a day axis")
	}
	if len(s.DailyVolumes) != 2 {
		t.Fatalf("expected one volume series per cliente, got %d", len(s.DailyVolumes))
	}
	for _, series := range s.DailyVolumes {
		if len(series.Liters) != len(s.Days) {
			t.Fatalf("cliente %d series has %d points for %d days",
				series.ClienteID, len(series.Liters), len(s.Days))
		}
	}
}

func TestPersonnelListExcludesAdminsAndClients(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "ana@lactalog.test")

	rr := f.do(t, token, http.MethodGet, "/api/users", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("users: status %d", rr.Code)
	}
	var rows []viewmodels.UserRow
	json.Unmarshal(rr.Body.Bytes(), &rows)
	if len(rows) != 2 {
		t.Fatalf("personnel rows = %d, want staff+driver only", len(rows))
	}
}

func TestClienteDirectory(t *testing.T) {
	f := newFixture(t)

	token := f.login(t, "carla@lactalog.test")
	rr := f.do(t, token, http.MethodGet, "/api/clientes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("clientes: status %d", rr.Code)
	}
	var clientes []*models.Cliente
	json.Unmarshal(rr.Body.Bytes(), &clientes)
	if len(clientes) != 2 || clientes[0].Name != "Tambo Norte" {
		t.Fatalf("directory = %v, want 2 clientes sorted by name", clientes)
	}

	// Creation is staff/admin only.
	clientToken := f.login(t, "bruno@lactalog.test")
	rr = f.do(t, clientToken, http.MethodPost, "/api/clientes", models.Cliente{Name: "Tambo Este"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("client creating cliente: status %d, want 403", rr.Code)
	}
}

func TestWriteUpstreamErrorMapsRenewalFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	writeUpstreamError(rr, fmt.Errorf("upstream: token renewal: %w", upstream.ErrAuthenticationFailed))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("renewal failure mapped to %d, want 401", rr.Code)
	}
}

func TestReportEmbed(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "ana@lactalog.test")

	rr := f.do(t, token, http.MethodGet, "/api/report", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("report: status %d", rr.Code)
	}
	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["title"] != "Lactalog" || resp["url"] == "" {
		t.Fatalf("embed payload: %v", resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "", http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: status %d", rr.Code)
	}
	var status health.HealthStatus
	json.Unmarshal(rr.Body.Bytes(), &status)
	if status.Status != "healthy" {
		t.Fatalf("status = %q", status.Status)
	}
}
