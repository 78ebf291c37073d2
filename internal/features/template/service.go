package template

import (
	"context"
	"time"

	common_models "go-orgadmin/internal/common/models"
	"go-orgadmin/internal/features/audit"
	"go-orgadmin/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateTemplateInput struct {
	InternalName    string `json:"internal_name"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	DefaultSLAHours int    `json:"default_sla_hours"`
}

type UpdateMetadataInput struct {
	InternalName    string `json:"internal_name"` // rejected when it differs from the stored name
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	DefaultSLAHours int    `json:"default_sla_hours"`
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, input CreateTemplateInput, actorID string) (*TemplateDefinition, error)
	GetTemplate(ctx context.Context, id string) (*TemplateDefinition, error)
	GetTemplateByInternalName(ctx context.Context, name string) (*TemplateDefinition, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateDefinition, error)
	UpdateMetadata(ctx context.Context, id string, input UpdateMetadataInput, actorID string) (*TemplateDefinition, error)
	ReplaceFields(ctx context.Context, id string, fields []FieldDefinition, actorID string) (*TemplateDefinition, error)
	ReplaceLevels(ctx context.Context, id string, levels []ApprovalLevel, actorID string) (*TemplateDefinition, error)
	SetActive(ctx context.Context, id string, active bool, actorID string) (*TemplateDefinition, error)
	ResolveApprovers(ctx context.Context, templateID string, levelNumber int, requesterID string) ([]string, error)
}

type TemplateServiceImpl struct {
	Repo         TemplateRepository
	Resolver     *ApproverResolver
	AuditService audit.AuditService
}

func NewTemplateService(repo TemplateRepository, resolver *ApproverResolver, auditService audit.AuditService) TemplateService {
	return &TemplateServiceImpl{
		Repo:         repo,
		Resolver:     resolver,
		AuditService: auditService,
	}
}

func validateMetadata(displayName, color string, slaHours int) []ValidationError {
	var errs []ValidationError
	if displayName == "" {
		errs = append(errs, ValidationError{Field: "display_name", Code: CodeEmptyDisplayName, Message: "display name is required"})
	}
	if color != "" && !IsTemplateColor(color) {
		errs = append(errs, ValidationError{Field: "color", Code: CodeInvalidColor, Message: "unrecognized color"})
	}
	if slaHours <= 0 {
		errs = append(errs, ValidationError{Field: "default_sla_hours", Code: CodeNonPositiveSLA, Message: "default sla hours must be positive"})
	}
	return errs
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, input CreateTemplateInput, actorID string) (*TemplateDefinition, error) {
	errs := validateMetadata(input.DisplayName, input.Color, input.DefaultSLAHours)

	// Internal name defaults to the normalized display name
	name := input.InternalName
	if name == "" {
		name = input.DisplayName
	}
	name = utils.InternalName(name)
	if !utils.IsValidInternalName(name) {
		errs = append(errs, ValidationError{Field: "internal_name", Code: CodeInvalidInternalName, Message: "internal name must be a lowercase underscore token"})
	} else {
		exists, err := s.Repo.ExistsByInternalName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			errs = append(errs, ValidationError{Field: "internal_name", Code: CodeDuplicateInternalName, Message: "a template with this internal name already exists"})
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationFailure{MetadataErrors: errs}
	}

	now := time.Now()
	tmpl := &TemplateDefinition{
		ID:              primitive.NewObjectID(),
		InternalName:    name,
		DisplayName:     input.DisplayName,
		Description:     input.Description,
		Icon:            input.Icon,
		Color:           input.Color,
		DefaultSLAHours: input.DefaultSLAHours,
		IsActive:        false,
		Fields:          []FieldDefinition{},
		Levels:          []ApprovalLevel{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(ctx, tmpl); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"internal_name": {New: tmpl.InternalName},
		"display_name":  {New: tmpl.DisplayName},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "template", tmpl.ID.Hex(), actorID, changes)

	return tmpl, nil
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, id string) (*TemplateDefinition, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *TemplateServiceImpl) GetTemplateByInternalName(ctx context.Context, name string) (*TemplateDefinition, error) {
	return s.Repo.GetByInternalName(ctx, name)
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateDefinition, error) {
	return s.Repo.List(ctx, activeOnly)
}

func (s *TemplateServiceImpl) UpdateMetadata(ctx context.Context, id string, input UpdateMetadataInput, actorID string) (*TemplateDefinition, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validateMetadata(input.DisplayName, input.Color, input.DefaultSLAHours)
	if input.InternalName != "" && input.InternalName != tmpl.InternalName {
		errs = append(errs, ValidationError{Field: "internal_name", Code: CodeInternalNameImmutable, Message: "internal name cannot be changed after creation"})
	}
	if len(errs) > 0 {
		return nil, &ValidationFailure{MetadataErrors: errs}
	}

	old := *tmpl
	tmpl.DisplayName = input.DisplayName
	tmpl.Description = input.Description
	tmpl.Icon = input.Icon
	tmpl.Color = input.Color
	tmpl.DefaultSLAHours = input.DefaultSLAHours
	tmpl.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, id, tmpl); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"display_name":      {Old: old.DisplayName, New: tmpl.DisplayName},
		"default_sla_hours": {Old: old.DefaultSLAHours, New: tmpl.DefaultSLAHours},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "template", id, actorID, changes)

	return tmpl, nil
}

// ReplaceFields swaps the whole form schema. The authoring surface
// always submits the complete reordered list; the aggregate is only
// mutated after the entire list validates, so a failed call leaves the
// stored template exactly as it was.
func (s *TemplateServiceImpl) ReplaceFields(ctx context.Context, id string, fields []FieldDefinition, actorID string) (*TemplateDefinition, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, ferrs := ValidateFieldList(fields)
	if len(ferrs) > 0 {
		return nil, &ValidationFailure{FieldErrors: ferrs}
	}
	for i := range normalized {
		if normalized[i].ID == "" {
			normalized[i].ID = uuid.NewString()
		}
	}

	oldCount := len(tmpl.Fields)
	tmpl.Fields = normalized
	tmpl.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, id, tmpl); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"fields": {Old: oldCount, New: len(normalized)},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "template", id, actorID, changes)

	return tmpl, nil
}

// ReplaceLevels swaps the whole approval chain, all-or-nothing like
// ReplaceFields. While the template is active the stricter activation
// rules keep applying, so an edit cannot leave an active template with
// an empty chain or approver-less levels.
func (s *TemplateServiceImpl) ReplaceLevels(ctx context.Context, id string, levels []ApprovalLevel, actorID string) (*TemplateDefinition, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lerrs := ValidateLevels(levels, tmpl.IsActive)
	if len(lerrs) > 0 {
		return nil, &ValidationFailure{LevelErrors: lerrs}
	}
	for i := range levels {
		if levels[i].ID == "" {
			levels[i].ID = uuid.NewString()
		}
	}

	oldCount := len(tmpl.Levels)
	tmpl.Levels = levels
	tmpl.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, id, tmpl); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"levels": {Old: oldCount, New: len(levels)},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "template", id, actorID, changes)

	return tmpl, nil
}

// SetActive flips the template's availability for new requests.
// Activation is the hard gate: every structural invariant must hold,
// and every violation found is reported at once.
func (s *TemplateServiceImpl) SetActive(ctx context.Context, id string, active bool, actorID string) (*TemplateDefinition, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		failure := &ValidationFailure{
			MetadataErrors: validateMetadata(tmpl.DisplayName, tmpl.Color, tmpl.DefaultSLAHours),
			LevelErrors:    ValidateLevels(tmpl.Levels, true),
		}
		if _, ferrs := ValidateFieldList(tmpl.Fields); len(ferrs) > 0 {
			failure.FieldErrors = ferrs
		}
		if !failure.Empty() {
			return nil, failure
		}
	}

	if tmpl.IsActive == active {
		return tmpl, nil
	}

	tmpl.IsActive = active
	tmpl.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, tmpl); err != nil {
		return nil, err
	}

	action := common_models.AuditActionActivate
	if !active {
		action = common_models.AuditActionDeactivate
	}
	_ = s.AuditService.LogChange(ctx, action, "template", id, actorID, map[string]common_models.Change{
		"is_active": {Old: !active, New: active},
	})

	return tmpl, nil
}

// ResolveApprovers expands one level of a template into concrete user
// ids for the given requester. Templates deactivated after a request
// was submitted still resolve, so in-flight requests keep working.
func (s *TemplateServiceImpl) ResolveApprovers(ctx context.Context, templateID string, levelNumber int, requesterID string) ([]string, error) {
	tmpl, err := s.Repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	level, ok := tmpl.LevelByNumber(levelNumber)
	if !ok {
		return nil, ErrLevelNotFound
	}
	return s.Resolver.Resolve(ctx, level, requesterID)
}
