package classification

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Felipe-Otto/ClickBusPredictions/models"
	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// fakeStore хранит счетчики покупок и категории клиентов в памяти.
// Записанные категории становятся видимыми только после Commit, как
// при снимке транзакции в InnoDB.
type fakeStore struct {
	counts    []PurchaseCount
	committed map[string]models.CategoryID

	failCounts bool
	failApply  bool
	failCommit bool
	beginCalls int

	// countsStarted и blockCounts удерживают запуск внутри агрегации,
	// чтобы проверить поведение при пересекающихся запусках
	countsStarted chan struct{}
	blockCounts   chan struct{}
}

func newFakeStore(counts []PurchaseCount) *fakeStore {
	return &fakeStore{
		counts:    counts,
		committed: make(map[string]models.CategoryID),
	}
}

func (s *fakeStore) Begin() (Tx, error) {
	s.beginCalls++
	return &fakeTx{store: s, staged: make(map[string]models.CategoryID)}, nil
}

type fakeTx struct {
	store  *fakeStore
	staged map[string]models.CategoryID
}

func (t *fakeTx) PurchaseCountsByCustomer() ([]PurchaseCount, error) {
	if t.store.countsStarted != nil {
		t.store.countsStarted <- struct{}{}
	}
	if t.store.blockCounts != nil {
		<-t.store.blockCounts
	}
	if t.store.failCounts {
		return nil, errors.New("хранилище недоступно")
	}
	return t.store.counts, nil
}

func (t *fakeTx) ApplyCategories(assignments []CategoryAssignment) (int64, error) {
	if t.store.failApply {
		return 0, errors.New("хранилище недоступно")
	}
	for _, assignment := range assignments {
		t.staged[assignment.CustomerID] = assignment.CategoryID
	}
	return int64(len(assignments)), nil
}

func (t *fakeTx) Commit() error {
	if t.store.failCommit {
		return errors.New("фиксация транзакции не удалась")
	}
	for id, category := range t.staged {
		t.store.committed[id] = category
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	t.staged = nil
	return nil
}

// fakeRunLog записывает переходы статусов запусков в память
type fakeRunLog struct {
	entries    []models.ClassificationRunLog
	nextID     int
	failCreate bool
}

func (f *fakeRunLog) CreateRunEntry(startTime time.Time) (int, error) {
	if f.failCreate {
		return 0, errors.New("журнал недоступен")
	}
	f.nextID++
	f.entries = append(f.entries, models.ClassificationRunLog{
		ID:        f.nextID,
		StartTime: startTime,
		Status:    models.RunStatusRunning,
	})
	return f.nextID, nil
}

func (f *fakeRunLog) MarkRunCommitted(id int, endTime time.Time, customersClassified, purchasesScanned int) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Status = models.RunStatusCommitted
			f.entries[i].EndTime = endTime
			f.entries[i].CustomersClassified = customersClassified
			f.entries[i].PurchasesScanned = purchasesScanned
		}
	}
	return nil
}

func (f *fakeRunLog) MarkRunFailed(id int, endTime time.Time, errorMessage string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Status = models.RunStatusFailed
			f.entries[i].EndTime = endTime
			f.entries[i].ErrorMessage = errorMessage
		}
	}
	return nil
}

func (f *fakeRunLog) GetLastCommittedRun() (*models.ClassificationRunLog, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].Status == models.RunStatusCommitted {
			return &f.entries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRunLog) GetRunStats(days int) ([]models.ClassificationRunLog, error) {
	return f.entries, nil
}

func newTestProcessor(store *fakeStore, runLog *fakeRunLog) *Processor {
	return NewProcessor(store, runLog, utils.NewNopJobLogger(), DefaultThresholds())
}

func TestRunAssignsCategories(t *testing.T) {
	store := newFakeStore([]PurchaseCount{
		{CustomerID: "C1", Purchases: 5},
		{CustomerID: "C2", Purchases: 10},
		{CustomerID: "C3", Purchases: 150},
		{CustomerID: "C5", Purchases: 42},
	})
	runLog := &fakeRunLog{}
	processor := newTestProcessor(store, runLog)

	if err := processor.Run(); err != nil {
		t.Fatalf("Run() вернул ошибку: %v", err)
	}

	want := map[string]models.CategoryID{
		"C1": models.CategoryNew,
		"C2": models.CategoryNew,
		"C3": models.CategoryVIP,
		"C5": models.CategoryRecurrent,
	}
	if diff := cmp.Diff(want, store.committed); diff != "" {
		t.Errorf("категории после запуска не совпадают (-want +got):\n%s", diff)
	}

	// Клиент без покупок не попадает в агрегацию и не затрагивается
	if _, ok := store.committed["C4"]; ok {
		t.Errorf("клиент C4 без покупок не должен классифицироваться")
	}

	if len(runLog.entries) != 1 {
		t.Fatalf("ожидалась одна запись в журнале, получено %d", len(runLog.entries))
	}
	entry := runLog.entries[0]
	if entry.Status != models.RunStatusCommitted {
		t.Errorf("статус запуска = %q, ожидался %q", entry.Status, models.RunStatusCommitted)
	}
	if entry.CustomersClassified != 4 {
		t.Errorf("CustomersClassified = %d, ожидалось 4", entry.CustomersClassified)
	}
	if entry.PurchasesScanned != 207 {
		t.Errorf("PurchasesScanned = %d, ожидалось 207", entry.PurchasesScanned)
	}
}

func TestRunReclassifiesAfterNewPurchase(t *testing.T) {
	store := newFakeStore([]PurchaseCount{{CustomerID: "C2", Purchases: 10}})
	runLog := &fakeRunLog{}
	processor := newTestProcessor(store, runLog)

	if err := processor.Run(); err != nil {
		t.Fatalf("первый Run() вернул ошибку: %v", err)
	}
	if got := store.committed["C2"]; got != models.CategoryNew {
		t.Fatalf("категория C2 после 10 покупок = %d, ожидалась %d", got, models.CategoryNew)
	}

	// Одиннадцатая покупка переводит клиента в категорию Recorrente
	store.counts = []PurchaseCount{{CustomerID: "C2", Purchases: 11}}

	if err := processor.Run(); err != nil {
		t.Fatalf("второй Run() вернул ошибку: %v", err)
	}
	if got := store.committed["C2"]; got != models.CategoryRecurrent {
		t.Errorf("категория C2 после 11 покупок = %d, ожидалась %d", got, models.CategoryRecurrent)
	}
}

func TestRunIdempotent(t *testing.T) {
	store := newFakeStore([]PurchaseCount{
		{CustomerID: "C1", Purchases: 5},
		{CustomerID: "C3", Purchases: 150},
	})
	runLog := &fakeRunLog{}
	processor := newTestProcessor(store, runLog)

	if err := processor.Run(); err != nil {
		t.Fatalf("первый Run() вернул ошибку: %v", err)
	}
	first := make(map[string]models.CategoryID, len(store.committed))
	for id, category := range store.committed {
		first[id] = category
	}

	if err := processor.Run(); err != nil {
		t.Fatalf("повторный Run() вернул ошибку: %v", err)
	}

	if diff := cmp.Diff(first, store.committed); diff != "" {
		t.Errorf("повторный запуск без новых покупок изменил категории (-want +got):\n%s", diff)
	}
	for _, entry := range runLog.entries {
		if entry.Status != models.RunStatusCommitted {
			t.Errorf("статус запуска = %q, ожидался %q", entry.Status, models.RunStatusCommitted)
		}
	}
}

func TestRunRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeStore)
	}{
		{"ошибка агрегации", func(s *fakeStore) { s.failCounts = true }},
		{"ошибка записи категорий", func(s *fakeStore) { s.failApply = true }},
		{"ошибка фиксации", func(s *fakeStore) { s.failCommit = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore([]PurchaseCount{{CustomerID: "C1", Purchases: 5}})
			tt.setup(store)
			runLog := &fakeRunLog{}
			processor := newTestProcessor(store, runLog)

			if err := processor.Run(); err == nil {
				t.Fatalf("Run() не вернул ошибку")
			}

			if len(store.committed) != 0 {
				t.Errorf("прерванный запуск изменил категории: %v", store.committed)
			}
			if len(runLog.entries) != 1 {
				t.Fatalf("ожидалась одна запись в журнале, получено %d", len(runLog.entries))
			}
			entry := runLog.entries[0]
			if entry.Status != models.RunStatusFailed {
				t.Errorf("статус запуска = %q, ожидался %q", entry.Status, models.RunStatusFailed)
			}
			if entry.ErrorMessage == "" {
				t.Errorf("в журнале отсутствует сообщение об ошибке")
			}
		})
	}
}

func TestRunFailsWhenRunLogUnavailable(t *testing.T) {
	store := newFakeStore([]PurchaseCount{{CustomerID: "C1", Purchases: 5}})
	runLog := &fakeRunLog{failCreate: true}
	processor := newTestProcessor(store, runLog)

	if err := processor.Run(); err == nil {
		t.Fatalf("Run() не вернул ошибку при недоступном журнале")
	}
	// Транзакция классификации не начинается без записи в журнале
	if store.beginCalls != 0 {
		t.Errorf("Begin() вызван %d раз, ожидалось 0", store.beginCalls)
	}
}

func TestRunSkipsWhenInProgress(t *testing.T) {
	store := newFakeStore([]PurchaseCount{{CustomerID: "C1", Purchases: 5}})
	store.countsStarted = make(chan struct{}, 1)
	store.blockCounts = make(chan struct{})
	runLog := &fakeRunLog{}
	processor := newTestProcessor(store, runLog)

	done := make(chan error, 1)
	go func() {
		done <- processor.Run()
	}()

	// Дождаться, пока первый запуск войдет в транзакцию
	<-store.countsStarted

	if err := processor.Run(); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("Run() во время выполнения = %v, ожидалась ErrRunInProgress", err)
	}

	close(store.blockCounts)
	if err := <-done; err != nil {
		t.Fatalf("первый Run() вернул ошибку: %v", err)
	}

	// Пропущенный запуск не оставляет следов в журнале
	if len(runLog.entries) != 1 {
		t.Errorf("ожидалась одна запись в журнале, получено %d", len(runLog.entries))
	}

	// После завершения запуски снова разрешены
	if err := processor.Run(); err != nil {
		t.Errorf("Run() после завершения вернул ошибку: %v", err)
	}
}
