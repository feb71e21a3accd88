package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditUsecase struct {
	audit repo.AuditLogRepository
	loc   *time.Location
}

// locは日付だけの from/to を解釈するタイムゾーン（台帳と同じ）
func NewAuditUsecase(audit repo.AuditLogRepository, loc *time.Location) *AuditUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &AuditUsecase{audit: audit, loc: loc}
}

// GET /audit-logsの入力DTO
type ListAuditLogsInput struct {
	// カンマ区切りで複数可（purge_ledger,import_inventory）
	Action       string
	ResourceType string
	ResourceID   string
	Actor        string
	ActorUserID  int64
	// YYYY-MM-DD か RFC3339
	From   string
	To     string
	Limit  int
	Offset int
}

type AuditLogListOutput struct {
	Logs   []model.AuditLog `json:"logs"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (u *AuditUsecase) List(ctx context.Context, in ListAuditLogsInput) (AuditLogListOutput, error) {
	var out AuditLogListOutput

	if in.Limit < 0 || in.Limit > maxAuditLimit {
		return out, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return out, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if in.Limit == 0 {
		in.Limit = defaultAuditLimit
	}

	f := repo.AuditLogFilter{
		ResourceID: strings.TrimSpace(in.ResourceID),
		Actor:      strings.TrimSpace(in.Actor),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}

	for _, a := range strings.Split(in.Action, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		action := model.AuditAction(strings.ToUpper(a))
		if !action.Valid() {
			return out, NewHTTPError(http.StatusBadRequest, "invalid action: "+a)
		}
		f.Actions = append(f.Actions, action)
	}
	if rt := strings.TrimSpace(in.ResourceType); rt != "" {
		t := model.AuditResourceType(strings.ToLower(rt))
		if !t.Valid() {
			return out, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
		f.ResourceType = t
	}
	if in.ActorUserID < 0 {
		return out, NewHTTPError(http.StatusBadRequest, "invalid actor_user_id")
	}
	if in.ActorUserID > 0 {
		id := in.ActorUserID
		f.ActorUserID = &id
	}

	if strings.TrimSpace(in.From) != "" {
		t, ok := parseBound(in.From, u.loc, false)
		if !ok {
			return out, NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		f.Since = &t
	}
	if strings.TrimSpace(in.To) != "" {
		t, ok := parseBound(in.To, u.loc, true)
		if !ok {
			return out, NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		f.Until = &t
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return out, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	logs, total, err := u.audit.List(ctx, f)
	if err != nil {
		return out, storageError(ctx, "audit.list", err)
	}
	return AuditLogListOutput{Logs: logs, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}
