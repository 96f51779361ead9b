package deletion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// =========== Mock Dispatchers & Gateway ===========

type fitnessCall struct {
	req PermissionTypes
	pkg string
}

type mockFitness struct {
	calls []fitnessCall
	err   error
	block chan struct{}
}

func (m *mockFitness) deleteTypes(_ context.Context, req PermissionTypes, pkg string) error {
	if m.block != nil {
		<-m.block
	}
	m.calls = append(m.calls, fitnessCall{req: req, pkg: pkg})
	return m.err
}

type medicalCall struct {
	req     PermissionTypes
	sources []uuid.UUID
}

type mockMedical struct {
	calls []medicalCall
	err   error
}

func (m *mockMedical) deleteTypes(_ context.Context, req PermissionTypes, sources []uuid.UUID) error {
	m.calls = append(m.calls, medicalCall{req: req, sources: sources})
	return m.err
}

type mockGateway struct {
	fitnessEntries [][]uuid.UUID
	medicalEntries [][]uuid.UUID
	appData        []string
	allDataCalls   int
	sources        map[string][]uuid.UUID
	entriesErr     error
}

func (m *mockGateway) DeleteFitnessRecords(_ context.Context, _ []permtype.FitnessType, _ string) error {
	return nil
}

func (m *mockGateway) DeleteMedicalResources(_ context.Context, _ []string, _ []uuid.UUID) error {
	return nil
}

func (m *mockGateway) DeleteFitnessEntries(_ context.Context, ids []uuid.UUID) error {
	if m.entriesErr != nil {
		return m.entriesErr
	}
	m.fitnessEntries = append(m.fitnessEntries, ids)
	return nil
}

func (m *mockGateway) DeleteMedicalEntries(_ context.Context, ids []uuid.UUID) error {
	m.medicalEntries = append(m.medicalEntries, ids)
	return nil
}

func (m *mockGateway) DeleteAppData(_ context.Context, pkg string) error {
	m.appData = append(m.appData, pkg)
	return nil
}

func (m *mockGateway) DeleteAllData(_ context.Context) error {
	m.allDataCalls++
	return nil
}

func (m *mockGateway) MedicalDataSources(_ context.Context, pkg string) ([]uuid.UUID, error) {
	return m.sources[pkg], nil
}

func newTestService() (*Service, *mockFitness, *mockMedical, *mockGateway) {
	gw := &mockGateway{}
	svc := NewService(gw, zerolog.Nop())
	mf := &mockFitness{}
	mm := &mockMedical{}
	svc.fitness = mf
	svc.medical = mm
	return svc, mf, mm, gw
}

// recordProgress subscribes before the run and returns a pointer to the
// captured sequence (synchronous callbacks make this deterministic).
func recordProgress(s *Service) *[]Progress {
	var seq []Progress
	s.Progress().Subscribe(func(u Update) {
		seq = append(seq, u.Progress)
	})
	return &seq
}

// =========== Tests ===========

func TestMixedRequestInvokesBothDispatchersOnce(t *testing.T) {
	svc, mf, mm, _ := newTestService()

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Distance, permtype.Immunizations},
		Total: 4,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(mf.calls) != 1 {
		t.Fatalf("fitness dispatcher invoked %d times, want 1", len(mf.calls))
	}
	if len(mm.calls) != 1 {
		t.Fatalf("medical dispatcher invoked %d times, want 1", len(mm.calls))
	}

	fReq := mf.calls[0].req
	if len(fReq.Types) != 1 || fReq.Types[0] != permtype.Distance {
		t.Errorf("fitness subset = %v, want [DISTANCE]", fReq.Types)
	}
	mReq := mm.calls[0].req
	if len(mReq.Types) != 1 || mReq.Types[0] != permtype.Immunizations {
		t.Errorf("medical subset = %v, want [IMMUNIZATIONS]", mReq.Types)
	}
	if fReq.Total != 4 || mReq.Total != 4 {
		t.Errorf("totals = %d/%d, want 4 preserved on both sub-requests", fReq.Total, mReq.Total)
	}
}

func TestSingleDomainRequestSkipsOtherDispatcher(t *testing.T) {
	svc, mf, mm, _ := newTestService()
	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps, permtype.Sleep},
		Total: 2,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(mf.calls) != 1 || len(mm.calls) != 0 {
		t.Errorf("fitness-only request: fitness=%d medical=%d calls, want 1/0",
			len(mf.calls), len(mm.calls))
	}

	svc, mf, mm, _ = newTestService()
	err = svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Conditions},
		Total: 1,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(mf.calls) != 0 || len(mm.calls) != 1 {
		t.Errorf("medical-only request: fitness=%d medical=%d calls, want 0/1",
			len(mf.calls), len(mm.calls))
	}
}

func TestEmptyRequestIsNoOpSuccess(t *testing.T) {
	svc, mf, mm, _ := newTestService()
	seq := recordProgress(svc)

	err := svc.Delete(context.Background(), PermissionTypes{Types: nil, Total: 0})
	if err != nil {
		t.Fatalf("empty request must be a no-op success, got %v", err)
	}
	if len(mf.calls) != 0 || len(mm.calls) != 0 {
		t.Error("dispatcher invoked for an empty request")
	}
	last := svc.Progress().Latest()
	if last.Progress != ProgressIndicatorCanEnd {
		t.Errorf("final progress = %s, want %s", last.Progress, ProgressIndicatorCanEnd)
	}
	for _, p := range *seq {
		if p == Failed {
			t.Error("empty request reported FAILED")
		}
	}
}

func TestProgressOrderingOnSuccess(t *testing.T) {
	svc, _, _, _ := newTestService()
	seq := recordProgress(svc)

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps},
		Total: 1,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []Progress{NotStarted, Started, ProgressIndicatorCanStart, Completed, ProgressIndicatorCanEnd}
	if len(*seq) != len(want) {
		t.Fatalf("sequence = %v, want %v", *seq, want)
	}
	for i, p := range want {
		if (*seq)[i] != p {
			t.Fatalf("sequence[%d] = %s, want %s (full: %v)", i, (*seq)[i], p, *seq)
		}
	}
}

func TestProgressOrderingOnFailure(t *testing.T) {
	svc, mf, _, _ := newTestService()
	mf.err = errors.New("store unavailable")
	seq := recordProgress(svc)

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps},
		Total: 1,
	})
	if err == nil {
		t.Fatal("Delete succeeded despite dispatcher failure")
	}

	want := []Progress{NotStarted, Started, ProgressIndicatorCanStart, Failed, ProgressIndicatorCanEnd}
	if len(*seq) != len(want) {
		t.Fatalf("sequence = %v, want %v", *seq, want)
	}
	for i, p := range want {
		if (*seq)[i] != p {
			t.Fatalf("sequence[%d] = %s, want %s (full: %v)", i, (*seq)[i], p, *seq)
		}
	}
}

func TestCompletedReportsAffectedDomains(t *testing.T) {
	svc, _, _, _ := newTestService()
	var completed Update
	svc.Progress().Subscribe(func(u Update) {
		if u.Progress == Completed {
			completed = u
		}
	})

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps, permtype.Immunizations},
		Total: 2,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(completed.Affected) != 2 {
		t.Errorf("Affected = %v, want both domains", completed.Affected)
	}
}

func TestBothDispatchersRunWhenOneFails(t *testing.T) {
	svc, mf, mm, _ := newTestService()
	mf.err = errors.New("fitness store down")

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps, permtype.Immunizations},
		Total: 2,
	})
	if err == nil {
		t.Fatal("Delete succeeded despite fitness failure")
	}
	if len(mm.calls) != 1 {
		t.Errorf("medical dispatcher invoked %d times after fitness failure, want 1", len(mm.calls))
	}
}

func TestRunInFlightRejectsNewRuns(t *testing.T) {
	svc, mf, _, _ := newTestService()
	mf.block = make(chan struct{})

	req := PermissionTypes{Types: []permtype.PermissionType{permtype.Steps}, Total: 1}
	if _, err := svc.Begin(req); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := svc.Delete(context.Background(), req); !errors.Is(err, ErrRunInFlight) {
		t.Errorf("concurrent Delete = %v, want ErrRunInFlight", err)
	}
	if _, err := svc.Begin(req); !errors.Is(err, ErrRunInFlight) {
		t.Errorf("concurrent Begin = %v, want ErrRunInFlight", err)
	}

	close(mf.block)
	deadline := time.Now().Add(2 * time.Second)
	for svc.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("run never finished")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAppScopedMedicalUsesAppDataSources(t *testing.T) {
	svc, _, mm, gw := newTestService()
	src := uuid.New()
	gw.sources = map[string][]uuid.UUID{"com.ehr": {src}}

	err := svc.Delete(context.Background(), PermissionTypesFromApp{
		Types:       []permtype.PermissionType{permtype.Immunizations},
		Total:       1,
		PackageName: "com.ehr",
		AppName:     "EHR",
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(mm.calls) != 1 {
		t.Fatalf("medical dispatcher invoked %d times, want 1", len(mm.calls))
	}
	if len(mm.calls[0].sources) != 1 || mm.calls[0].sources[0] != src {
		t.Errorf("sources = %v, want [%s]", mm.calls[0].sources, src)
	}
}

func TestAppScopedMedicalWithoutSourcesIsNoOp(t *testing.T) {
	svc, _, mm, _ := newTestService()

	err := svc.Delete(context.Background(), PermissionTypesFromApp{
		Types:       []permtype.PermissionType{permtype.Immunizations},
		Total:       1,
		PackageName: "com.noscources",
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(mm.calls) != 0 {
		t.Error("medical dispatcher invoked for an app with no data sources")
	}
}

func TestEntriesPartitionedByDomain(t *testing.T) {
	svc, _, _, gw := newTestService()
	f1, m1, m2 := uuid.New(), uuid.New(), uuid.New()

	err := svc.Delete(context.Background(), Entries{
		IDs: []EntryID{
			{ID: f1, Domain: DomainFitness},
			{ID: m1, Domain: DomainMedical},
			{ID: m2, Domain: DomainMedical},
		},
		Total: 3,
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(gw.fitnessEntries) != 1 || len(gw.fitnessEntries[0]) != 1 || gw.fitnessEntries[0][0] != f1 {
		t.Errorf("fitness entry batches = %v", gw.fitnessEntries)
	}
	if len(gw.medicalEntries) != 1 || len(gw.medicalEntries[0]) != 2 {
		t.Errorf("medical entry batches = %v", gw.medicalEntries)
	}
}

func TestUnknownEntryDomainFails(t *testing.T) {
	svc, _, _, gw := newTestService()
	err := svc.Delete(context.Background(), Entries{
		IDs:   []EntryID{{ID: uuid.New(), Domain: Domain("dental")}},
		Total: 1,
	})
	if !errors.Is(err, ErrUnsupportedRequest) {
		t.Errorf("Delete = %v, want ErrUnsupportedRequest", err)
	}
	if len(gw.fitnessEntries)+len(gw.medicalEntries) != 0 {
		t.Error("entries reached the gateway despite an unknown domain")
	}
}

func TestAppDataAndAllDataAffectBothDomains(t *testing.T) {
	svc, _, _, gw := newTestService()
	if err := svc.Delete(context.Background(), AppData{PackageName: "com.a"}); err != nil {
		t.Fatalf("Delete(AppData): %v", err)
	}
	if len(gw.appData) != 1 || gw.appData[0] != "com.a" {
		t.Errorf("appData = %v", gw.appData)
	}

	if err := svc.Delete(context.Background(), AllData{}); err != nil {
		t.Fatalf("Delete(AllData): %v", err)
	}
	if gw.allDataCalls != 1 {
		t.Errorf("allDataCalls = %d, want 1", gw.allDataCalls)
	}

	last := svc.Progress().Latest()
	if last.Progress != ProgressIndicatorCanEnd {
		t.Errorf("final progress = %s", last.Progress)
	}
}

func TestOverselectionRejectedBeforeRun(t *testing.T) {
	svc, mf, _, _ := newTestService()

	err := svc.Delete(context.Background(), PermissionTypes{
		Types: []permtype.PermissionType{permtype.Steps, permtype.Distance},
		Total: 1,
	})
	if err == nil {
		t.Fatal("over-selected request accepted")
	}
	if len(mf.calls) != 0 {
		t.Error("dispatcher invoked for an invalid request")
	}
	if got := svc.Progress().Latest().Progress; got != NotStarted {
		t.Errorf("progress moved to %s for an invalid request", got)
	}
}

func TestNilRequestFailsFast(t *testing.T) {
	svc, _, _, _ := newTestService()
	if err := svc.Delete(context.Background(), nil); !errors.Is(err, ErrUnsupportedRequest) {
		t.Errorf("Delete(nil) = %v, want ErrUnsupportedRequest", err)
	}
}
