package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-api/internal/config"
	"github.com/unclebandit/customer-api/internal/controller"
	"github.com/unclebandit/customer-api/internal/db"
	"github.com/unclebandit/customer-api/internal/handler"
	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/queue"
	"github.com/unclebandit/customer-api/internal/repository"
	"github.com/unclebandit/customer-api/internal/service"
)

type apiServer struct {
	*httptest.Server
	queue *queue.InMemoryQueue
}

func newAPI(t *testing.T, cfg config.DatabaseConfig) *apiServer {
	t.Helper()
	log := zerolog.Nop()

	store := db.Open(context.Background(), cfg, log)
	t.Cleanup(func() { _ = store.Close() })

	q := queue.NewInMemoryQueue(log)
	require.NoError(t, queue.StartEventLogger(q, "customer_events", log))
	events := queue.NewPublisher(q, "customer_events", log)

	customerRepo := &repository.CustomerRepository{Store: store}
	addressRepo := &repository.AddressRepository{Store: store}

	router := handler.NewRouter(handler.Routes{
		Customers: &controller.CustomerController{
			CustomerService: &service.CustomerService{CustomerRepo: customerRepo, Events: events},
			Log:             log,
		},
		Addresses: &controller.AddressController{
			AddressService: &service.AddressService{AddressRepo: addressRepo, CustomerRepo: customerRepo, Events: events},
			Log:            log,
		},
		Health:         &handler.HealthHandler{Store: store},
		Log:            log,
		AllowedOrigins: []string{"*"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		q.Wait()
	})
	return &apiServer{Server: srv, queue: q}
}

func newSQLiteAPI(t *testing.T) *apiServer {
	return newAPI(t, config.DatabaseConfig{
		Driver:       db.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "customer.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
}

func (s *apiServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := s.doRaw(t, method, path, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return status, out
}

func (s *apiServer) doRaw(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func customerBody() map[string]string {
	return map[string]string{"first_name": "A", "last_name": "B", "phone_number": "1234567890"}
}

func addressBody(city string) map[string]string {
	return map[string]string{"address_line": "X", "city": city, "state": "MH", "pin_code": "411001"}
}

func TestAPI_CreateCustomerAndFilterByCity(t *testing.T) {
	api := newSQLiteAPI(t)

	status, created := api.do(t, http.MethodPost, "/api/customers", customerBody())
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "Customer created successfully", created["message"])

	status, created = api.do(t, http.MethodPost, "/api/customers/1/addresses", addressBody("Pune"))
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "Address added successfully", created["message"])

	status, raw := api.doRaw(t, http.MethodGet, "/api/customers?city=Pune", nil)
	require.Equal(t, http.StatusOK, status)

	var list struct {
		Customers  []model.Customer `json:"customers"`
		Pagination model.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Customers, 1)
	assert.EqualValues(t, 1, list.Customers[0].ID)
	require.NotNil(t, list.Customers[0].City)
	assert.Equal(t, "Pune", *list.Customers[0].City)
	assert.Equal(t, model.Pagination{
		CurrentPage: 1, TotalPages: 1, TotalCount: 1, Limit: 10, HasNextPage: false, HasPrevPage: false,
	}, list.Pagination)
}

func TestAPI_ListResponseShape(t *testing.T) {
	api := newSQLiteAPI(t)

	status, body := api.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, status)

	customers, ok := body["customers"].([]any)
	require.True(t, ok, "customers must be a JSON array, got %T", body["customers"])
	assert.Empty(t, customers)

	pagination, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"currentPage", "totalPages", "totalCount", "limit", "hasNextPage", "hasPrevPage"} {
		assert.Contains(t, pagination, key)
	}
	assert.EqualValues(t, 0, pagination["totalPages"])
	assert.Equal(t, false, pagination["hasNextPage"])

	api.do(t, http.MethodPost, "/api/customers", customerBody())
	_, raw := api.doRaw(t, http.MethodGet, "/api/customers", nil)
	var withNull struct {
		Customers []map[string]any `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(raw, &withNull))
	require.Len(t, withNull.Customers, 1)
	assert.Contains(t, withNull.Customers[0], "city")
	assert.Nil(t, withNull.Customers[0]["city"], "no address means null display fields")
}

func TestAPI_Pagination(t *testing.T) {
	api := newSQLiteAPI(t)
	for i := 0; i < 25; i++ {
		status, _ := api.do(t, http.MethodPost, "/api/customers", customerBody())
		require.Equal(t, http.StatusCreated, status)
	}

	_, body := api.do(t, http.MethodGet, "/api/customers?page=3&limit=10", nil)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["currentPage"])
	assert.EqualValues(t, 3, pagination["totalPages"])
	assert.EqualValues(t, 25, pagination["totalCount"])
	assert.Equal(t, false, pagination["hasNextPage"])
	assert.Equal(t, true, pagination["hasPrevPage"])
	assert.Len(t, body["customers"], 5)

	_, body = api.do(t, http.MethodGet, "/api/customers?page=0&limit=abc", nil)
	pagination = body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["currentPage"])
	assert.EqualValues(t, 10, pagination["limit"])
	customers := body["customers"].([]any)
	require.Len(t, customers, 10)
	assert.EqualValues(t, 25, customers[0].(map[string]any)["id"], "newest first")
}

func TestAPI_HugePageNumberReturnsEmptyPage(t *testing.T) {
	api := newSQLiteAPI(t)
	api.do(t, http.MethodPost, "/api/customers", customerBody())

	for _, page := range []string{"1000000000000000000", "922337203685477581"} {
		status, body := api.do(t, http.MethodGet, "/api/customers?page="+page+"&limit=10", nil)
		require.Equal(t, http.StatusOK, status, "page=%s body=%v", page, body)

		assert.Empty(t, body["customers"])
		pagination := body["pagination"].(map[string]any)
		assert.EqualValues(t, 1, pagination["totalCount"])
		assert.Equal(t, false, pagination["hasNextPage"])
		assert.Equal(t, true, pagination["hasPrevPage"])
	}
}

func TestAPI_CustomerValidation(t *testing.T) {
	api := newSQLiteAPI(t)

	status, body := api.do(t, http.MethodPost, "/api/customers", map[string]string{"first_name": "A"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgAllFieldsRequired, body["error"])

	short := customerBody()
	short["phone_number"] = "12345"
	status, body = api.do(t, http.MethodPost, "/api/customers", short)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgPhoneTooShort, body["error"])

	status, _ = api.do(t, http.MethodPost, "/api/customers", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(t, http.MethodGet, "/api/customers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid customer id", body["error"])

	_, list := api.do(t, http.MethodGet, "/api/customers", nil)
	assert.Empty(t, list["customers"], "failed creates write nothing")
}

func TestAPI_CustomerNotFound(t *testing.T) {
	api := newSQLiteAPI(t)

	status, body := api.do(t, http.MethodGet, "/api/customers/9", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Customer not found", body["error"])

	status, body = api.do(t, http.MethodPut, "/api/customers/9", customerBody())
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Customer not found", body["error"])

	status, body = api.do(t, http.MethodDelete, "/api/customers/9", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Customer not found", body["error"])
}

func TestAPI_CustomerUpdateAndDelete(t *testing.T) {
	api := newSQLiteAPI(t)
	api.do(t, http.MethodPost, "/api/customers", customerBody())
	api.do(t, http.MethodPost, "/api/customers/1/addresses", addressBody("Pune"))

	updated := customerBody()
	updated["last_name"] = "Rao"
	status, body := api.do(t, http.MethodPut, "/api/customers/1", updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Customer updated successfully", body["message"])

	_, got := api.do(t, http.MethodGet, "/api/customers/1", nil)
	assert.Equal(t, "Rao", got["last_name"])
	assert.Equal(t, "Pune", got["city"])

	status, body = api.do(t, http.MethodDelete, "/api/customers/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Customer deleted successfully", body["message"])

	status, _ = api.do(t, http.MethodGet, "/api/addresses/1", nil)
	assert.Equal(t, http.StatusNotFound, status, "addresses go with their customer")
}

func TestAPI_AddressLifecycle(t *testing.T) {
	api := newSQLiteAPI(t)
	api.do(t, http.MethodPost, "/api/customers", customerBody())

	status, body := api.do(t, http.MethodPost, "/api/customers/1/addresses", map[string]string{"city": "Pune"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgAllAddressFieldsRequired, body["error"])

	status, body = api.do(t, http.MethodPost, "/api/customers/77/addresses", addressBody("Pune"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Customer not found", body["error"])

	status, _ = api.do(t, http.MethodPost, "/api/customers/1/addresses", addressBody("Pune"))
	require.Equal(t, http.StatusCreated, status)

	status, raw := api.doRaw(t, http.MethodGet, "/api/customers/1/addresses", nil)
	require.Equal(t, http.StatusOK, status)
	var addresses []model.Address
	require.NoError(t, json.Unmarshal(raw, &addresses))
	require.Len(t, addresses, 1, "the rejected create for customer 77 inserted nothing")
	assert.Equal(t, "Pune", addresses[0].City)

	status, raw = api.doRaw(t, http.MethodGet, "/api/customers/77/addresses", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(raw))

	status, body = api.do(t, http.MethodPut, "/api/addresses/1", addressBody("Nashik"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Address updated successfully", body["message"])

	_, got := api.do(t, http.MethodGet, "/api/addresses/1", nil)
	assert.Equal(t, "Nashik", got["city"])
	assert.EqualValues(t, 1, got["customer_id"])

	status, body = api.do(t, http.MethodDelete, "/api/addresses/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Address deleted successfully", body["message"])

	status, body = api.do(t, http.MethodDelete, "/api/addresses/1", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Address not found", body["error"])

	status, body = api.do(t, http.MethodPut, "/api/addresses/1", addressBody("Pune"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Address not found", body["error"])
}

func TestAPI_HealthAndRequestID(t *testing.T) {
	api := newSQLiteAPI(t)

	req, err := http.NewRequest(http.MethodGet, api.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(handler.RequestIDHeader, "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(handler.RequestIDHeader))

	resp2, err := http.Get(api.URL + "/api/customers")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(handler.RequestIDHeader))
}

func TestAPI_UnavailableStore(t *testing.T) {
	api := newAPI(t, config.DatabaseConfig{Driver: "unknown"})

	status, body := api.do(t, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["error"], db.ErrUnavailable.Error())

	// Validation still runs before storage.
	status, _ = api.do(t, http.MethodPost, "/api/customers", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unavailable", body["status"])
}
