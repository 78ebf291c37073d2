package template

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-orgadmin/internal/common/models"

	"go.uber.org/zap"
)

type fakeTemplateRepo struct {
	templates map[string]*TemplateDefinition
	updates   int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*TemplateDefinition)}
}

func (r *fakeTemplateRepo) Create(ctx context.Context, tmpl *TemplateDefinition) error {
	cp := *tmpl
	r.templates[tmpl.ID.Hex()] = &cp
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*TemplateDefinition, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	cp := *tmpl
	return &cp, nil
}

func (r *fakeTemplateRepo) GetByInternalName(ctx context.Context, name string) (*TemplateDefinition, error) {
	for _, tmpl := range r.templates {
		if tmpl.InternalName == name {
			cp := *tmpl
			return &cp, nil
		}
	}
	return nil, ErrTemplateNotFound
}

func (r *fakeTemplateRepo) List(ctx context.Context, activeOnly bool) ([]TemplateDefinition, error) {
	var out []TemplateDefinition
	for _, tmpl := range r.templates {
		if activeOnly && !tmpl.IsActive {
			continue
		}
		out = append(out, *tmpl)
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, id string, tmpl *TemplateDefinition) error {
	if _, ok := r.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	cp := *tmpl
	r.templates[id] = &cp
	r.updates++
	return nil
}

func (r *fakeTemplateRepo) ExistsByInternalName(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByInternalName(ctx, name)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeTemplateRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeAuditService struct {
	actions []common_models.AuditAction
}

func (f *fakeAuditService) LogChange(ctx context.Context, action common_models.AuditAction, entity, recordID, actorID string, changes map[string]common_models.Change) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *fakeTemplateRepo) (*TemplateServiceImpl, *fakeAuditService) {
	audit := &fakeAuditService{}
	resolver := NewApproverResolver(&fakeRoleMembership{}, &fakeOrganization{}, zap.NewNop())
	return &TemplateServiceImpl{
		Repo:         repo,
		Resolver:     resolver,
		AuditService: audit,
	}, audit
}

func seedTemplate(t *testing.T, svc TemplateService) *TemplateDefinition {
	t.Helper()
	tmpl, err := svc.CreateTemplate(context.Background(), CreateTemplateInput{
		DisplayName:     "Leave Request",
		Color:           "blue",
		DefaultSLAHours: 48,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	return tmpl
}

func failureOf(t *testing.T, err error) *ValidationFailure {
	t.Helper()
	var failure *ValidationFailure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want *ValidationFailure", err)
	}
	return failure
}

func TestCreateTemplate(t *testing.T) {
	svc, audit := newTestService(newFakeTemplateRepo())

	tmpl := seedTemplate(t, svc)
	if tmpl.InternalName != "leave_request" {
		t.Errorf("InternalName = %q, want leave_request", tmpl.InternalName)
	}
	if tmpl.IsActive {
		t.Error("new template must start inactive")
	}
	if len(tmpl.Fields) != 0 || len(tmpl.Levels) != 0 {
		t.Error("new template must start with empty schema and chain")
	}
	if len(audit.actions) != 1 || audit.actions[0] != common_models.AuditActionCreate {
		t.Errorf("audit actions = %v, want [CREATE]", audit.actions)
	}

	// Same display name normalizes to the same internal name
	_, err := svc.CreateTemplate(context.Background(), CreateTemplateInput{
		DisplayName:     "Leave  Request",
		Color:           "green",
		DefaultSLAHours: 24,
	}, "admin")
	failure := failureOf(t, err)
	if len(failure.MetadataErrors) != 1 || failure.MetadataErrors[0].Code != CodeDuplicateInternalName {
		t.Errorf("MetadataErrors = %v, want duplicate_internal_name", failure.MetadataErrors)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	svc, _ := newTestService(newFakeTemplateRepo())

	_, err := svc.CreateTemplate(context.Background(), CreateTemplateInput{
		DisplayName:     "",
		Color:           "mauve",
		DefaultSLAHours: 0,
	}, "admin")
	failure := failureOf(t, err)

	codes := make(map[string]bool)
	for _, e := range failure.MetadataErrors {
		codes[e.Code] = true
	}
	for _, want := range []string{CodeEmptyDisplayName, CodeInvalidColor, CodeNonPositiveSLA} {
		if !codes[want] {
			t.Errorf("missing metadata code %s in %v", want, failure.MetadataErrors)
		}
	}
}

func TestUpdateMetadataInternalNameImmutable(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, _ := newTestService(repo)
	tmpl := seedTemplate(t, svc)

	_, err := svc.UpdateMetadata(context.Background(), tmpl.ID.Hex(), UpdateMetadataInput{
		InternalName:    "vacation_request",
		DisplayName:     "Vacation Request",
		Color:           "blue",
		DefaultSLAHours: 48,
	}, "admin")
	failure := failureOf(t, err)
	if len(failure.MetadataErrors) != 1 || failure.MetadataErrors[0].Code != CodeInternalNameImmutable {
		t.Errorf("MetadataErrors = %v, want internal_name_immutable", failure.MetadataErrors)
	}

	// Resubmitting the stored name is fine
	updated, err := svc.UpdateMetadata(context.Background(), tmpl.ID.Hex(), UpdateMetadataInput{
		InternalName:    "leave_request",
		DisplayName:     "Vacation Request",
		Color:           "green",
		DefaultSLAHours: 24,
	}, "admin")
	if err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}
	if updated.DisplayName != "Vacation Request" || updated.InternalName != "leave_request" {
		t.Errorf("updated = %s/%s, want Vacation Request/leave_request", updated.DisplayName, updated.InternalName)
	}
}

func TestReplaceFieldsAllOrNothing(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, _ := newTestService(repo)
	tmpl := seedTemplate(t, svc)
	id := tmpl.ID.Hex()

	good := []FieldDefinition{
		{Name: "leave_type", Label: "Leave Type", Type: FieldTypeSelect, Options: []string{"sick", "vacation"}},
		{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, DependsOnField: "leave_type"},
	}
	updated, err := svc.ReplaceFields(context.Background(), id, good, "admin")
	if err != nil {
		t.Fatalf("ReplaceFields() error = %v", err)
	}
	for i, f := range updated.Fields {
		if f.ID == "" {
			t.Errorf("field %d has no id assigned", i)
		}
	}

	// The same two fields swapped: the dependency now points forward
	bad := []FieldDefinition{good[1], good[0]}
	_, err = svc.ReplaceFields(context.Background(), id, bad, "admin")
	failure := failureOf(t, err)
	if !hasFieldError(failure.FieldErrors, CodeDanglingDependency) {
		t.Errorf("FieldErrors = %v, want dangling_dependency", failure.FieldErrors)
	}

	// The stored schema must be untouched by the rejected call
	stored, err := svc.GetTemplate(context.Background(), id)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if len(stored.Fields) != 2 || stored.Fields[0].Name != "leave_type" {
		t.Errorf("stored fields = %v, want the previously accepted list", stored.Fields)
	}
}

func TestReplaceLevelsOnActiveTemplate(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, _ := newTestService(repo)
	tmpl := seedTemplate(t, svc)
	id := tmpl.ID.Hex()

	levels := []ApprovalLevel{namedLevel(1, "Team Lead")}
	if _, err := svc.ReplaceLevels(context.Background(), id, levels, "admin"); err != nil {
		t.Fatalf("ReplaceLevels() error = %v", err)
	}
	if _, err := svc.SetActive(context.Background(), id, true, "admin"); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	// While active, a chain with an approver-less level is rejected
	draft := []ApprovalLevel{namedLevel(1, "Team Lead"), {LevelNumber: 2, LevelName: "HR"}}
	_, err := svc.ReplaceLevels(context.Background(), id, draft, "admin")
	failure := failureOf(t, err)
	if !hasLevelError(failure.LevelErrors, CodeEmptyApproverSet) {
		t.Errorf("LevelErrors = %v, want empty_approver_set", failure.LevelErrors)
	}

	// After deactivation the same draft is accepted
	if _, err := svc.SetActive(context.Background(), id, false, "admin"); err != nil {
		t.Fatalf("SetActive(false) error = %v", err)
	}
	if _, err := svc.ReplaceLevels(context.Background(), id, draft, "admin"); err != nil {
		t.Errorf("ReplaceLevels() on inactive template error = %v", err)
	}
}

func TestActivationGate(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, audit := newTestService(repo)
	tmpl := seedTemplate(t, svc)
	id := tmpl.ID.Hex()

	// No levels at all
	_, err := svc.SetActive(context.Background(), id, true, "admin")
	failure := failureOf(t, err)
	if !hasLevelError(failure.LevelErrors, CodeNoLevels) {
		t.Errorf("LevelErrors = %v, want no_levels", failure.LevelErrors)
	}

	// A level without approvers still blocks activation
	draft := []ApprovalLevel{namedLevel(1, "Team Lead"), {LevelNumber: 2, LevelName: "HR"}}
	if _, err := svc.ReplaceLevels(context.Background(), id, draft, "admin"); err != nil {
		t.Fatalf("ReplaceLevels() error = %v", err)
	}
	_, err = svc.SetActive(context.Background(), id, true, "admin")
	failure = failureOf(t, err)
	if !hasLevelError(failure.LevelErrors, CodeEmptyApproverSet) {
		t.Errorf("LevelErrors = %v, want empty_approver_set", failure.LevelErrors)
	}

	// With every level staffed, activation succeeds
	full := []ApprovalLevel{namedLevel(1, "Team Lead"), namedLevel(2, "HR")}
	if _, err := svc.ReplaceLevels(context.Background(), id, full, "admin"); err != nil {
		t.Fatalf("ReplaceLevels() error = %v", err)
	}
	activated, err := svc.SetActive(context.Background(), id, true, "admin")
	if err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if !activated.IsActive {
		t.Error("IsActive = false after successful activation")
	}
	last := audit.actions[len(audit.actions)-1]
	if last != common_models.AuditActionActivate {
		t.Errorf("last audit action = %v, want ACTIVATE", last)
	}
}

func TestSetActiveIdempotent(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, _ := newTestService(repo)
	tmpl := seedTemplate(t, svc)
	id := tmpl.ID.Hex()

	before := repo.updates
	if _, err := svc.SetActive(context.Background(), id, false, "admin"); err != nil {
		t.Fatalf("SetActive(false) on inactive template error = %v", err)
	}
	if repo.updates != before {
		t.Error("deactivating an inactive template wrote to storage")
	}
}

func TestResolveApproversThroughService(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc, _ := newTestService(repo)
	tmpl := seedTemplate(t, svc)
	id := tmpl.ID.Hex()

	levels := []ApprovalLevel{namedLevel(1, "Team Lead")}
	if _, err := svc.ReplaceLevels(context.Background(), id, levels, "admin"); err != nil {
		t.Fatalf("ReplaceLevels() error = %v", err)
	}

	got, err := svc.ResolveApprovers(context.Background(), id, 1, "req1")
	if err != nil {
		t.Fatalf("ResolveApprovers() error = %v", err)
	}
	if len(got) != 1 || got[0] != "u1" {
		t.Errorf("ResolveApprovers() = %v, want [u1]", got)
	}

	if _, err := svc.ResolveApprovers(context.Background(), id, 9, "req1"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("missing level error = %v, want ErrLevelNotFound", err)
	}
	if _, err := svc.ResolveApprovers(context.Background(), "unknown", 1, "req1"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing template error = %v, want ErrTemplateNotFound", err)
	}

	// Deactivation does not block resolution for in-flight requests
	if _, err := svc.SetActive(context.Background(), id, false, "admin"); err != nil {
		t.Fatalf("SetActive(false) error = %v", err)
	}
	if _, err := svc.ResolveApprovers(context.Background(), id, 1, "req1"); err != nil {
		t.Errorf("ResolveApprovers() on inactive template error = %v", err)
	}
}
