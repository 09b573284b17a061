package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"testing"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mendoza-ahrensburg/kasse/internal/api"
	"github.com/mendoza-ahrensburg/kasse/internal/catalog"
	"github.com/mendoza-ahrensburg/kasse/internal/domain"
	"github.com/mendoza-ahrensburg/kasse/internal/service/ledger"
	"github.com/mendoza-ahrensburg/kasse/internal/service/receipt"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/memory"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/state"
)

// TableLifecycleTestSuite тестирует полный жизненный цикл стола
// через HTTP API поверх хранилища в памяти.
type TableLifecycleTestSuite struct {
	suite.Suite
	store  kv.Store
	server *httptest.Server
	menu   domain.Catalog
}

func (s *TableLifecycleTestSuite) SetupTest() {
	s.store = memory.NewKVStore()
	s.startServer()
}

// startServer собирает сервис поверх текущего хранилища,
// повторный вызов имитирует перезапуск приложения.
func (s *TableLifecycleTestSuite) startServer() {
	if s.server != nil {
		s.server.Close()
	}

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	logger := baseLogger.WithField("component", "integration-test")

	menu, err := catalog.Load()
	require.NoError(s.T(), err)
	s.menu = menu

	suppliers, err := catalog.LoadSuppliers()
	require.NoError(s.T(), err)

	now := func() time.Time {
		return time.Date(2026, time.August, 30, 19, 0, 0, 0, time.UTC)
	}
	formatter := receipt.NewFormatter(receipt.MendozaProfile(), now)

	svc, err := ledger.NewServiceWithoutMetrics(
		context.Background(),
		state.NewLedgerRepository(s.store),
		state.NewReceiptCounterRepository(s.store),
		formatter,
		logger,
	)
	require.NoError(s.T(), err)

	router := chi.NewRouter()
	api.NewHandler(svc, menu, suppliers, logger).RegisterRoutes(router)

	s.server = httptest.NewServer(router)
}

func (s *TableLifecycleTestSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
}

func (s *TableLifecycleTestSuite) doJSON(method, path string, body any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *TableLifecycleTestSuite) decodeLedger(resp *http.Response) domain.Ledger {
	defer func() { _ = resp.Body.Close() }()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var snapshot domain.Ledger
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&snapshot))
	return snapshot
}

func (s *TableLifecycleTestSuite) firstMenuItem() domain.MenuItem {
	require.NotEmpty(s.T(), s.menu.Food)
	require.NotEmpty(s.T(), s.menu.Food[0].Items)
	return s.menu.Food[0].Items[0]
}

// Полный цикл: открыть стол, набрать позиции, распечатать квитанцию, закрыть.
func (s *TableLifecycleTestSuite) TestFullLifecycle() {
	snapshot := s.decodeLedger(s.doJSON(http.MethodPost, "/api/tables", map[string]string{"name": "Tisch 3"}))
	require.Len(s.T(), snapshot.Tables, 1)
	tableID := snapshot.Tables[0].ID

	item := s.firstMenuItem()
	s.decodeLedger(s.doJSON(http.MethodPost,
		fmt.Sprintf("/api/tables/%d/lines", tableID), map[string]any{"item": item}))
	snapshot = s.decodeLedger(s.doJSON(http.MethodPost,
		fmt.Sprintf("/api/tables/%d/lines/increase", tableID), map[string]any{"item": item}))

	table, found := snapshot.TableByID(tableID)
	require.True(s.T(), found)
	require.Len(s.T(), table.Lines, 1)
	require.Equal(s.T(), int32(2), table.Lines[0].Qty)
	require.Equal(s.T(), 2*item.PriceMinor, table.TotalMinor)

	resp := s.doJSON(http.MethodPost, fmt.Sprintf("/api/tables/%d/receipt", tableID), nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var printed struct {
		Receipt  *domain.ReceiptDocument `json:"receipt"`
		Number   int64                   `json:"number"`
		PrintURL string                  `json:"printUrl"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&printed))
	require.NotNil(s.T(), printed.Receipt)
	require.Equal(s.T(), int64(ledger.DefaultReceiptNumber), printed.Number)
	require.True(s.T(), strings.HasPrefix(printed.PrintURL, "IAMPrintReceipt://?ticketJSON="))

	snapshot = s.decodeLedger(s.doJSON(http.MethodDelete, fmt.Sprintf("/api/tables/%d", tableID), nil))
	require.Empty(s.T(), snapshot.Tables)
}

// Состояние и счётчик квитанций переживают перезапуск сервиса.
func (s *TableLifecycleTestSuite) TestStateSurvivesRestart() {
	snapshot := s.decodeLedger(s.doJSON(http.MethodPost, "/api/tables", map[string]string{"name": "Terrasse 1"}))
	tableID := snapshot.Tables[0].ID

	item := s.firstMenuItem()
	s.decodeLedger(s.doJSON(http.MethodPost,
		fmt.Sprintf("/api/tables/%d/lines", tableID), map[string]any{"item": item}))

	resp := s.doJSON(http.MethodPost, fmt.Sprintf("/api/tables/%d/receipt", tableID), nil)
	_ = resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	s.startServer()

	snapshot = s.decodeLedger(s.doJSON(http.MethodGet, "/api/tables", nil))
	table, found := snapshot.TableByID(tableID)
	require.True(s.T(), found)
	require.Equal(s.T(), "Terrasse 1", table.Name)
	require.Equal(s.T(), item.PriceMinor, table.TotalMinor)

	resp = s.doJSON(http.MethodPost, fmt.Sprintf("/api/tables/%d/receipt", tableID), nil)
	defer func() { _ = resp.Body.Close() }()

	var printed struct {
		Number int64 `json:"number"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&printed))
	require.Equal(s.T(), int64(ledger.DefaultReceiptNumber+1), printed.Number)
}

// Тихие no-op: операции над несуществующим столом возвращают 200 и прежний снапшот.
func (s *TableLifecycleTestSuite) TestSilentNoOps() {
	snapshot := s.decodeLedger(s.doJSON(http.MethodPost, "/api/tables", map[string]string{"name": "Tisch 9"}))
	require.Len(s.T(), snapshot.Tables, 1)

	item := s.firstMenuItem()
	after := s.decodeLedger(s.doJSON(http.MethodPost, "/api/tables/777/lines", map[string]any{"item": item}))
	require.Equal(s.T(), snapshot, after)

	after = s.decodeLedger(s.doJSON(http.MethodPost, "/api/tables", map[string]string{"name": "   "}))
	require.Equal(s.T(), snapshot, after)
}

// Сводка поставщику собирается из санированных количеств.
func (s *TableLifecycleTestSuite) TestSupplierMessage() {
	resp := s.doJSON(http.MethodGet, "/api/suppliers", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var listing struct {
		Suppliers []struct {
			Supplier domain.Supplier `json:"supplier"`
			Rows     []struct {
				ID       string `json:"id"`
				Quantity string `json:"quantity"`
			} `json:"rows"`
		} `json:"suppliers"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&listing))
	require.NotEmpty(s.T(), listing.Suppliers)

	draft := listing.Suppliers[0]
	require.NotEmpty(s.T(), draft.Rows)

	rows := []map[string]string{{"id": draft.Rows[0].ID, "quantity": "3"}}
	msgResp := s.doJSON(http.MethodPost,
		"/api/suppliers/"+draft.Supplier.ID+"/message", map[string]any{"rows": rows})
	defer func() { _ = msgResp.Body.Close() }()
	require.Equal(s.T(), http.StatusOK, msgResp.StatusCode)

	var msg struct {
		Channel string `json:"channel"`
		Body    string `json:"body"`
		URL     string `json:"url"`
	}
	require.NoError(s.T(), json.NewDecoder(msgResp.Body).Decode(&msg))
	require.Contains(s.T(), msg.Body, "Bestellung für morgen")
	require.Contains(s.T(), msg.Body, "Mit freundlichen Grüßen")
	require.NotEmpty(s.T(), msg.URL)
}

func TestTableLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(TableLifecycleTestSuite))
}
