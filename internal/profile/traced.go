package profile

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/telemetry"
)

type tracedRepo struct {
	next   Repository
	logger *zap.Logger
}

// Traced wraps a repository with profile.save / profile.load spans and
// debug logging.
func Traced(next Repository, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tracedRepo{next: next, logger: logger}
}

func (r *tracedRepo) Save(ctx context.Context, doc *Document) error {
	ctx, span := telemetry.Tracer("profile").Start(ctx, "profile.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("hero.id", doc.HeroID),
		attribute.Int("profile.version", doc.Version),
	)

	if err := r.next.Save(ctx, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return err
	}
	r.logger.Debug("profile saved", zap.String("hero", doc.HeroID))
	return nil
}

func (r *tracedRepo) Load(ctx context.Context, heroID string) (*Document, error) {
	ctx, span := telemetry.Tracer("profile").Start(ctx, "profile.load")
	defer span.End()
	span.SetAttributes(attribute.String("hero.id", heroID))

	doc, err := r.next.Load(ctx, heroID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load failed")
		}
		span.SetAttributes(attribute.Bool("found", false))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("found", true))
	r.logger.Debug("profile loaded", zap.String("hero", heroID), zap.Int("level", doc.Player.Level))
	return doc, nil
}

func (r *tracedRepo) List(ctx context.Context) ([]string, error) {
	return r.next.List(ctx)
}

func (r *tracedRepo) Delete(ctx context.Context, heroID string) error {
	return r.next.Delete(ctx, heroID)
}
