package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveBackendCall(operation, result string, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, operation+":"+result)
}

type ClientSuite struct {
	suite.Suite
	mux      *http.ServeMux
	server   *httptest.Server
	observer *recordingObserver
	client   *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.observer = &recordingObserver{}
	s.client = New(s.server.URL, 2*time.Second, WithObserver(s.observer))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *ClientSuite) TestFindPerson() {
	s.Run("found record with numeric document number", func() {
		s.mux.HandleFunc("GET /api/tenants/acme/customers/document/12345678", func(w http.ResponseWriter, r *http.Request) {
			s.Equal("acme", r.Header.Get(TenantHeader))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":7,"document_type_id":1,"document_number":12345678,"first_name":"Ana","last_name":"Quispe","email":"ana@mail.pe","is_younger":false}`)
		})

		p, err := s.client.FindPerson(context.Background(), "acme", KindCustomer, "12345678")
		s.Require().NoError(err)
		s.Equal(7, p.ID)
		s.Equal(DocumentNumber("12345678"), p.DocumentNumber)
		s.Equal("Ana", p.FirstName)
	})

	s.Run("missing record is not found", func() {
		s.mux.HandleFunc("GET /api/tenants/acme/tutors/document/87654321", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Tutor no encontrado"})
		})

		_, err := s.client.FindPerson(context.Background(), "acme", KindTutor, "87654321")
		s.Require().Error(err)
		s.True(IsNotFound(err))
		s.True(dErrors.HasCode(wrapDomain(err), dErrors.CodeNotFound))
	})
}

func wrapDomain(err error) error {
	be, _ := AsError(err)
	return dErrors.Wrap(err, be.Code(), be.Message)
}

func (s *ClientSuite) TestCreatePerson() {
	s.mux.HandleFunc("POST /api/tenants/acme/tutors", func(w http.ResponseWriter, r *http.Request) {
		var p Person
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&p))
		s.Equal(DocumentNumber("87654321"), p.DocumentNumber)
		s.Equal("application/json", r.Header.Get("Content-Type"))
		p.ID = 42
		writeJSON(w, http.StatusCreated, p)
	})

	created, err := s.client.CreatePerson(context.Background(), "acme", KindTutor, Person{
		DocumentTypeID: 1,
		DocumentNumber: "87654321",
		FirstName:      "Luis",
		LastName:       "Rojas",
	})
	s.Require().NoError(err)
	s.Equal(42, created.ID)
	s.Equal([]string{"create_tutor:ok"}, s.observer.calls)
}

func (s *ClientSuite) TestCreatePersonWithoutID() {
	s.mux.HandleFunc("POST /api/tenants/acme/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"first_name": "Ana"})
	})

	_, err := s.client.CreatePerson(context.Background(), "acme", KindCustomer, Person{DocumentNumber: "1"})
	s.Equal(CategoryBadData, CategoryOf(err))
}

func (s *ClientSuite) TestCreateClaim() {
	s.mux.HandleFunc("POST /api/public/acme/claims", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("key-1", r.Header.Get(IdempotencyHeader))
		s.Require().NoError(r.ParseMultipartForm(1 << 20))
		s.Equal("natural", r.FormValue("person_type"))
		s.Equal("7", r.FormValue("customer_id"))
		files := r.MultipartForm.File["attachment"]
		s.Require().Len(files, 2)
		s.Equal("boleta.pdf", files[0].Filename)
		s.Equal("application/pdf", files[0].Header.Get("Content-Type"))
		writeJSON(w, http.StatusCreated, Receipt{ID: 1, Code: "REC-2026-000001", Message: "Reclamo registrado"})
	})

	receipt, err := s.client.CreateClaim(context.Background(), "acme", ClaimRequest{
		Parts: []Part{{Name: "person_type", Value: "natural"}, {Name: "customer_id", Value: "7"}},
		Files: []File{
			{Name: "boleta.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
			{Name: "carta.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Data: []byte("PK")},
		},
		IdempotencyKey: "key-1",
	})
	s.Require().NoError(err)
	s.Equal("REC-2026-000001", receipt.Code)
	s.Equal("Reclamo registrado", receipt.Message)
}

func (s *ClientSuite) TestErrorClassification() {
	cases := []struct {
		name     string
		tenant   string
		status   int
		body     string
		category Category
		code     dErrors.Code
	}{
		{"rejected with fields", "t-422", http.StatusUnprocessableEntity, `{"errors":[{"field":"email","message":"is invalid"}]}`, CategoryRejected, dErrors.CodeRejected},
		{"conflict", "t-409", http.StatusConflict, `{"message":"Reclamo duplicado"}`, CategoryConflict, dErrors.CodeConflict},
		{"bad request", "t-400", http.StatusBadRequest, `{"message":"Datos incompletos"}`, CategoryBadRequest, dErrors.CodeBadRequest},
		{"rate limited", "t-429", http.StatusTooManyRequests, ``, CategoryRateLimited, dErrors.CodeUnavailable},
		{"outage", "t-503", http.StatusServiceUnavailable, `<html>down</html>`, CategoryOutage, dErrors.CodeUnavailable},
		{"gateway timeout", "t-504", http.StatusGatewayTimeout, ``, CategoryTimeout, dErrors.CodeTimeout},
		{"server error", "t-500", http.StatusInternalServerError, `{"error":"boom"}`, CategoryInternal, dErrors.CodeUnavailable},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mux.HandleFunc("POST /api/public/"+tc.tenant+"/claims", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := s.client.CreateClaim(context.Background(), tc.tenant, ClaimRequest{})
			be, ok := AsError(err)
			s.Require().True(ok)
			s.Equal(tc.category, be.Category)
			s.Equal(tc.status, be.Status)
			s.Equal(tc.code, be.Code())
		})
	}
}

func (s *ClientSuite) TestRejectedCarriesFields() {
	s.mux.HandleFunc("POST /api/public/acme/claims", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  []FieldError{{Field: "email", Message: "is invalid"}, {Field: "phone", Message: "is required"}},
		})
	})

	_, err := s.client.CreateClaim(context.Background(), "acme", ClaimRequest{})
	be, ok := AsError(err)
	s.Require().True(ok)
	s.Equal("Validation failed", be.Message)
	s.Equal([]FieldError{{Field: "email", Message: "is invalid"}, {Field: "phone", Message: "is required"}}, be.Fields)
	s.Equal([]string{"create_claim:rejected"}, s.observer.calls)
}

func (s *ClientSuite) TestCatalogsAreCached() {
	var hits atomic.Int32
	handler := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	s.mux.HandleFunc("GET /api/document_types", handler(`[{"id":1,"name":"DNI"},{"id":2,"name":"PASAPORTE"}]`))
	s.mux.HandleFunc("GET /api/consumption_types", handler(`[{"id":3,"name":"Producto"}]`))
	s.mux.HandleFunc("GET /api/claim_types", handler(`[{"id":4,"name":"Reclamo"}]`))
	s.mux.HandleFunc("GET /api/currencies", handler(`[{"id":1,"code":"PEN","name":"Sol","symbol":"S/"}]`))

	first, err := s.client.Catalogs(context.Background())
	s.Require().NoError(err)
	second, err := s.client.Catalogs(context.Background())
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Len(first.DocumentTypes, 2)
	s.Equal("3", first.DefaultConsumptionType())
	s.Equal(int32(4), hits.Load())

	s.client.InvalidateCatalogs()
	_, err = s.client.Catalogs(context.Background())
	s.Require().NoError(err)
	s.Equal(int32(8), hits.Load())
}

func (s *ClientSuite) TestCatalogsPartialFailureIsNotCached() {
	var fail atomic.Bool
	fail.Store(true)
	ok := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	s.mux.HandleFunc("GET /api/document_types", ok(`[]`))
	s.mux.HandleFunc("GET /api/consumption_types", ok(`[]`))
	s.mux.HandleFunc("GET /api/claim_types", ok(`[]`))
	s.mux.HandleFunc("GET /api/currencies", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":2,"code":"USD","name":"Dólar","symbol":"$"}]`)
	})

	_, err := s.client.Catalogs(context.Background())
	s.Equal(CategoryOutage, CategoryOf(err))

	fail.Store(false)
	cats, err := s.client.Catalogs(context.Background())
	s.Require().NoError(err)
	s.Equal("2", cats.DefaultCurrency())
}

func (s *ClientSuite) TestTrackClaim() {
	s.mux.HandleFunc("GET /api/public/acme/claims/REC-2026-000001", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Tracking{Code: "REC-2026-000001", Resolved: true, Status: 2})
	})

	tr, err := s.client.TrackClaim(context.Background(), "acme", "REC-2026-000001")
	s.Require().NoError(err)
	s.Equal("Resuelto", tr.StatusLabel())
}

func (s *ClientSuite) TestSearchLocations() {
	s.mux.HandleFunc("GET /api/locations", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("san juan", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"district":"San Juan de Lurigancho","province":"Lima","department":"Lima","displayName":"San Juan de Lurigancho, Lima, Lima","ubigeo":"150132"}]`)
	})

	locs, err := s.client.SearchLocations(context.Background(), "san juan")
	s.Require().NoError(err)
	s.Require().Len(locs, 1)
	s.Equal("150132", locs[0].Code)
}

func (s *ClientSuite) TestMalformedBody() {
	s.mux.HandleFunc("GET /api/public/acme/claims/REC-2026-000002", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":`)
	})

	_, err := s.client.TrackClaim(context.Background(), "acme", "REC-2026-000002")
	s.Equal(CategoryBadData, CategoryOf(err))
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(server.URL, 50*time.Millisecond)
	_, err := client.FindPerson(context.Background(), "acme", KindCustomer, "12345678")
	require.Error(t, err)
	assert.Equal(t, CategoryTimeout, CategoryOf(err))
}

func TestClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(url, time.Second)
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, CategoryOutage, CategoryOf(err))
}

func TestRateLimiterHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, WithRateLimit(0.001, 1))
	_, err := client.SearchLocations(context.Background(), "lima")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.SearchLocations(ctx, "lima")
	assert.Equal(t, CategoryTimeout, CategoryOf(err))
}

func TestDocumentNumberUnmarshal(t *testing.T) {
	var p Person
	require.NoError(t, json.Unmarshal([]byte(`{"document_number":" AB123456 "}`), &p))
	assert.Equal(t, DocumentNumber("AB123456"), p.DocumentNumber)

	require.NoError(t, json.Unmarshal([]byte(`{"document_number":4512}`), &p))
	assert.Equal(t, "4512", p.DocumentNumber.String())

	assert.Error(t, json.Unmarshal([]byte(`{"document_number":true}`), &p))
}
