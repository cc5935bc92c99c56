package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var passTracer = otel.Tracer("service/passes")

// Pass background colors by type.
const (
	colorLoyalty    = "#3B82F6"
	colorMembership = "#10B981"
	colorEvent      = "#8B5CF6"
)

// PassService manages digital wallet passes: the default loyalty card,
// user-created membership and event passes, and a downloadable pass file.
type PassService struct {
	store   port.PassStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPassService creates a pass service.
func NewPassService(store port.PassStore, metrics *observability.Metrics, logger *zap.Logger) *PassService {
	return &PassService{store: store, metrics: metrics, logger: logger}
}

// List returns the user's passes, seeding the default loyalty card on
// first access.
func (s *PassService) List(ctx context.Context, userID string) ([]domain.WalletPass, error) {
	ctx, span := passTracer.Start(ctx, "PassService.List")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	passes, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(passes) > 0 {
		return passes, nil
	}

	loyalty := domain.WalletPass{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            domain.PassLoyalty,
		Title:           "Smart Wallet Rewards",
		Subtitle:        "Member since " + time.Now().Format("2006"),
		Balance:         "1,250 points",
		Barcode:         fmt.Sprintf("SW%d", time.Now().UnixMilli()),
		BackgroundColor: colorLoyalty,
		TextColor:       "#FFFFFF",
		Fields: []domain.PassField{
			{Label: "Tier", Value: "Gold"},
			{Label: "Points", Value: "1,250"},
		},
		IsActive:  true,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.store.Save(ctx, &loyalty); err != nil {
		return nil, err
	}
	return []domain.WalletPass{loyalty}, nil
}

// CreateMembership creates a membership pass.
func (s *PassService) CreateMembership(ctx context.Context, userID string, req *domain.MembershipPassRequest) (*domain.WalletPass, error) {
	ctx, span := passTracer.Start(ctx, "PassService.CreateMembership")
	defer span.End()

	if req.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "title is required"}
	}
	if req.MemberNumber == "" {
		return nil, &domain.ErrValidation{Field: "memberNumber", Message: "member number is required"}
	}

	pass := &domain.WalletPass{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            domain.PassMembership,
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Barcode:         "MEM" + strings.ToUpper(req.MemberNumber),
		BackgroundColor: colorMembership,
		TextColor:       "#FFFFFF",
		Fields: []domain.PassField{
			{Label: "Member #", Value: req.MemberNumber},
			{Label: "Expires", Value: req.ExpiryDate},
		},
		IsActive:  true,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := s.store.Save(ctx, pass); err != nil {
		return nil, err
	}
	s.logger.Info("membership pass created",
		zap.String("passId", pass.ID),
		zap.String("userId", userID))
	return pass, nil
}

// CreateEvent creates an event ticket pass.
func (s *PassService) CreateEvent(ctx context.Context, userID string, req *domain.EventPassRequest) (*domain.WalletPass, error) {
	ctx, span := passTracer.Start(ctx, "PassService.CreateEvent")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "event name is required"}
	}
	if req.Date == "" {
		return nil, &domain.ErrValidation{Field: "date", Message: "event date is required"}
	}

	fields := []domain.PassField{
		{Label: "Venue", Value: req.Venue},
		{Label: "Date", Value: req.Date},
		{Label: "Time", Value: req.Time},
	}
	if req.Seat != "" {
		fields = append(fields, domain.PassField{Label: "Seat", Value: req.Seat})
	}

	pass := &domain.WalletPass{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            domain.PassEvent,
		Title:           req.Name,
		Subtitle:        req.Venue,
		Barcode:         fmt.Sprintf("EVT%d", time.Now().UnixMilli()),
		BackgroundColor: colorEvent,
		TextColor:       "#FFFFFF",
		Fields:          fields,
		IsActive:        true,
		CreatedAt:       time.Now().Format(time.RFC3339),
	}

	if err := s.store.Save(ctx, pass); err != nil {
		return nil, err
	}
	s.logger.Info("event pass created",
		zap.String("passId", pass.ID),
		zap.String("userId", userID))
	return pass, nil
}

// Deactivate marks a pass inactive without removing it from the wallet.
func (s *PassService) Deactivate(ctx context.Context, userID, passID string) (*domain.WalletPass, error) {
	ctx, span := passTracer.Start(ctx, "PassService.Deactivate")
	defer span.End()

	passes, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range passes {
		if passes[i].ID == passID {
			passes[i].IsActive = false
			if err := s.store.Update(ctx, &passes[i]); err != nil {
				return nil, err
			}
			return &passes[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "pass", ID: passID}
}

// passFile is the downloadable pass envelope, structurally similar to a
// pkpass manifest but JSON end to end.
type passFile struct {
	FormatVersion int               `json:"formatVersion"`
	Description   string            `json:"description"`
	Serial        string            `json:"serialNumber"`
	Barcode       string            `json:"barcode"`
	Pass          domain.WalletPass `json:"pass"`
}

// Download renders a pass as a base64 data URL for the client to save.
func (s *PassService) Download(ctx context.Context, userID, passID string) (string, error) {
	ctx, span := passTracer.Start(ctx, "PassService.Download")
	defer span.End()

	passes, err := s.store.List(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, pass := range passes {
		if pass.ID != passID {
			continue
		}
		blob, err := json.Marshal(passFile{
			FormatVersion: 1,
			Description:   pass.Title,
			Serial:        pass.ID,
			Barcode:       pass.Barcode,
			Pass:          pass,
		})
		if err != nil {
			return "", err
		}
		return "data:application/json;base64," + base64.StdEncoding.EncodeToString(blob), nil
	}
	return "", &domain.ErrNotFound{Resource: "pass", ID: passID}
}
