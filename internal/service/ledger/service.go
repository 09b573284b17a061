// Package ledger реализует операции над журналом открытых столов.
// Все мутации проходят через один мьютекс и пишут полный снапшот состояния
// в хранилище до возврата управления: касса переживает перезапуск процесса
// без потери открытых столов и номера квитанции.
package ledger

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
	"github.com/mendoza-ahrensburg/kasse/internal/metrics"
	"github.com/mendoza-ahrensburg/kasse/internal/service/receipt"
)

// DefaultReceiptNumber — начальный номер квитанции при первом запуске.
// Продолжает нумерацию бумажной книги квитанций, которую вела касса раньше.
const DefaultReceiptNumber = 170803

// Service — ядро кассы: журнал столов и счётчик квитанций под одним мьютексом.
type Service struct {
	mu            sync.Mutex
	ledger        domain.Ledger
	receiptNumber int64

	ledgerRepo  domain.LedgerRepository
	counterRepo domain.ReceiptCounterRepository
	formatter   *receipt.Formatter
	logger      *log.Entry
	metrics     *metrics.POSMetrics
}

// NewService создаёт сервис и гидрирует состояние из хранилища:
// отсутствующий снапшот означает пустой журнал и начальный номер квитанции.
func NewService(
	ctx context.Context,
	ledgerRepo domain.LedgerRepository,
	counterRepo domain.ReceiptCounterRepository,
	formatter *receipt.Formatter,
	logger *log.Entry,
) (*Service, error) {
	return newService(ctx, ledgerRepo, counterRepo, formatter, logger, metrics.NewPOSMetrics())
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	ctx context.Context,
	ledgerRepo domain.LedgerRepository,
	counterRepo domain.ReceiptCounterRepository,
	formatter *receipt.Formatter,
	logger *log.Entry,
) (*Service, error) {
	return newService(ctx, ledgerRepo, counterRepo, formatter, logger, nil)
}

func newService(
	ctx context.Context,
	ledgerRepo domain.LedgerRepository,
	counterRepo domain.ReceiptCounterRepository,
	formatter *receipt.Formatter,
	logger *log.Entry,
	posMetrics *metrics.POSMetrics,
) (*Service, error) {
	if logger == nil {
		logger = log.New().WithField("component", "ledger")
	}

	ledger, ok, err := ledgerRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		ledger = domain.Ledger{}
	}

	number, ok, err := counterRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		number = DefaultReceiptNumber
	}

	s := &Service{
		ledger:        ledger,
		receiptNumber: number,
		ledgerRepo:    ledgerRepo,
		counterRepo:   counterRepo,
		formatter:     formatter,
		logger:        logger,
		metrics:       posMetrics,
	}
	s.setOpenTables()
	return s, nil
}

// Snapshot возвращает текущий журнал столов.
func (s *Service) Snapshot() domain.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger
}

// ReceiptNumber возвращает номер, который получит следующая квитанция.
func (s *Service) ReceiptNumber() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receiptNumber
}

// CreateTable открывает новый стол. Пустое имя — тихий no-op.
func (s *Service) CreateTable(ctx context.Context, name string) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return s.noOp("create_table", domain.ErrTableNameRequired)
	}

	table := domain.Table{ID: s.ledger.NextTableID(), Name: name}
	return s.commit(ctx, "create_table", s.ledger.WithTable(table))
}

// DeleteTable закрывает стол. Неизвестный идентификатор — тихий no-op.
func (s *Service) DeleteTable(ctx context.Context, tableID int64) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledger.TableByID(tableID); !ok {
		return s.noOp("delete_table", domain.ErrTableNotFound)
	}
	return s.commit(ctx, "delete_table", s.ledger.WithoutTable(tableID))
}

// AddLine добавляет позицию на стол: существующая строка с той же парой
// (id, цена) получает +1, иначе появляется новая строка с количеством 1.
func (s *Service) AddLine(ctx context.Context, tableID int64, item domain.MenuItem) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.ledger.TableByID(tableID)
	if !ok {
		return s.noOp("add_line", domain.ErrTableNotFound)
	}
	return s.commit(ctx, "add_line", s.ledger.WithTable(table.WithLineAdded(item, item.Kind)))
}

// IncreaseLine увеличивает количество существующей строки на 1.
// Отсутствующая строка — тихий no-op, новая строка не создаётся.
func (s *Service) IncreaseLine(ctx context.Context, tableID int64, item domain.MenuItem) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.ledger.TableByID(tableID)
	if !ok {
		return s.noOp("increase_line", domain.ErrTableNotFound)
	}
	updated, ok := table.WithLineIncreased(item)
	if !ok {
		return s.noOp("increase_line", domain.ErrLineNotFound)
	}
	return s.commit(ctx, "increase_line", s.ledger.WithTable(updated))
}

// RemoveLine уменьшает количество строки на 1; строка с количеством 1
// удаляется целиком. Отсутствующая строка — тихий no-op.
func (s *Service) RemoveLine(ctx context.Context, tableID int64, item domain.MenuItem) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.ledger.TableByID(tableID)
	if !ok {
		return s.noOp("remove_line", domain.ErrTableNotFound)
	}
	updated, ok := table.WithLineRemoved(item)
	if !ok {
		return s.noOp("remove_line", domain.ErrLineNotFound)
	}
	return s.commit(ctx, "remove_line", s.ledger.WithTable(updated))
}

// AddMiscCharge добавляет на стол произвольную сумму строкой "Divers".
// Сумма принимается строкой с точкой или запятой; всё, что не разбирается
// как конечное число больше нуля, — тихий no-op. Строки "Divers" сливаются
// только при совпадении суммы.
func (s *Service) AddMiscCharge(ctx context.Context, tableID int64, amount string) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.ledger.TableByID(tableID)
	if !ok {
		return s.noOp("add_misc_charge", domain.ErrTableNotFound)
	}

	amountMinor, err := parseAmountMinor(amount)
	if err != nil {
		return s.noOp("add_misc_charge", err)
	}

	item := domain.NewMiscItem(amountMinor)
	return s.commit(ctx, "add_misc_charge", s.ledger.WithTable(table.WithLineAdded(item, item.Kind)))
}

// PrintReceipt собирает документ квитанции для стола и продвигает счётчик
// номеров ровно на единицу. Номер никогда не переиспользуется: при ошибке
// записи счётчик в памяти уже продвинут, и следующая квитанция получит
// следующий номер.
func (s *Service) PrintReceipt(ctx context.Context, tableID int64) (domain.ReceiptDocument, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.ledger.TableByID(tableID)
	if !ok {
		s.recordNoOp()
		return domain.ReceiptDocument{}, 0, domain.ErrTableNotFound
	}
	if len(table.Lines) == 0 {
		s.recordNoOp()
		return domain.ReceiptDocument{}, 0, domain.ErrEmptyReceipt
	}

	start := time.Now()
	number := s.receiptNumber
	doc := s.formatter.Build(table, number)
	s.receiptNumber++

	if err := s.counterRepo.Save(ctx, s.receiptNumber); err != nil {
		s.logger.WithError(err).Error("persist receipt number")
		return domain.ReceiptDocument{}, 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordOperation("print_receipt")
		s.metrics.RecordReceiptPrinted()
		s.metrics.RecordReceiptDuration(time.Since(start))
	}
	s.logger.WithField("receipt_number", number).WithField("table_id", tableID).Info("receipt emitted")
	return doc, number, nil
}

// commit сохраняет снапшот в хранилище и только после этого применяет его
// в памяти. Ошибка записи оставляет состояние нетронутым.
func (s *Service) commit(ctx context.Context, op string, updated domain.Ledger) (domain.Ledger, error) {
	if err := s.ledgerRepo.Save(ctx, updated); err != nil {
		s.logger.WithError(err).WithField("op", op).Error("persist ledger snapshot")
		return s.ledger, err
	}
	s.ledger = updated

	if s.metrics != nil {
		s.metrics.RecordOperation(op)
	}
	s.setOpenTables()
	s.logger.WithField("op", op).WithField("open_tables", len(updated.Tables)).Debug("ledger updated")
	return s.ledger, nil
}

func (s *Service) noOp(op string, err error) (domain.Ledger, error) {
	s.recordNoOp()
	s.logger.WithField("op", op).WithError(err).Debug("operation ignored")
	return s.ledger, err
}

func (s *Service) recordNoOp() {
	if s.metrics != nil {
		s.metrics.RecordNoOp()
	}
}

func (s *Service) setOpenTables() {
	if s.metrics != nil {
		s.metrics.SetOpenTables(len(s.ledger.Tables))
	}
}

// parseAmountMinor разбирает сумму в евро ("3.50" или "3,50") в евроценты.
func parseAmountMinor(amount string) (int64, error) {
	amount = strings.ReplaceAll(strings.TrimSpace(amount), ",", ".")
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, domain.ErrAmountInvalid
	}

	minor := int64(math.Round(value * 100))
	if minor <= 0 {
		return 0, domain.ErrAmountInvalid
	}
	return minor, nil
}
