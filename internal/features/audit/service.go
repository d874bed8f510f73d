package audit

import (
	"context"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder resolves actor names without a hard dependency on the user feature.
type UserFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
}

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	UserRepo UserFinder
}

func NewAuditService(repo AuditRepository, userRepo UserFinder) AuditService {
	return &AuditServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	// Actor travels with the request context, set by the auth middleware
	actorID := "system"
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		actorID = claims.UserID
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	logs, err := s.Repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	// Batch-resolve actor display names
	uniqueIDs := make(map[string]bool)
	actorIDs := make([]string, 0)
	for _, l := range logs {
		if l.ActorID != "" && l.ActorID != "system" && !uniqueIDs[l.ActorID] {
			uniqueIDs[l.ActorID] = true
			actorIDs = append(actorIDs, l.ActorID)
		}
	}

	if len(actorIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(ctx, actorIDs)
		if err == nil {
			nameByID := make(map[string]string, len(users))
			for _, u := range users {
				nameByID[u.ID.Hex()] = u.FullName
			}
			for i := range logs {
				logs[i].ActorName = nameByID[logs[i].ActorID]
			}
		}
	}

	return logs, nil
}
