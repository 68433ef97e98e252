package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/logger"
	"github.com/guttosm/pack-advice/internal/metrics"
)

// DefaultTagPrefix marks order tags owned by the advice engine.
const DefaultTagPrefix = "C-"

// TagApplier writes the advised containers to the order as tags.
type TagApplier interface {
	Apply(ctx context.Context, adviceID string) ([]string, error)
}

// TagApplierService implements TagApplier against the order system.
type TagApplierService struct {
	store  AdviceStore
	orders OrderTagger
	prefix string
	now    func() time.Time
}

// NewTagApplierService creates a tag applier. An empty prefix uses DefaultTagPrefix.
func NewTagApplierService(store AdviceStore, orders OrderTagger, prefix string) *TagApplierService {
	if prefix == "" {
		prefix = DefaultTagPrefix
	}
	return &TagApplierService{store: store, orders: orders, prefix: prefix, now: time.Now}
}

// Apply replaces the engine-owned tags on the order with one tag per advised box and
// marks the advice applied. It returns the tags actually written.
func (s *TagApplierService) Apply(ctx context.Context, adviceID string) ([]string, error) {
	if s.store == nil {
		return nil, ErrRepositoryNotConfigured
	}
	advice, err := s.store.FindByID(ctx, adviceID)
	if err != nil {
		return nil, err
	}
	if advice == nil {
		return nil, ErrAdviceNotFound
	}

	lg := logger.FromContext(ctx).With().Str("advice_id", advice.ID).Int64("order_id", advice.OrderID).Logger()
	if advice.Confidence == model.ConfidenceNoMatch || len(advice.AdviceBoxes) == 0 {
		lg.Info().Msg("Advice has no boxes, not writing tags")
		return []string{}, nil
	}

	if s.orders == nil {
		return nil, ErrOrderSystemNotConfigured
	}
	current, err := s.orders.OrderTags(ctx, advice.OrderID)
	if err != nil {
		return nil, fmt.Errorf("read order tags: %w", err)
	}
	for _, tag := range current {
		if !strings.HasPrefix(tag.Name, s.prefix) {
			continue
		}
		if err := s.orders.RemoveOrderTag(ctx, advice.OrderID, tag.ID); err != nil {
			metrics.RecordTagWrite("remove", "error")
			lg.Error().Err(err).Str("tag", tag.Name).Msg("Failed to remove tag")
			continue
		}
		metrics.RecordTagWrite("remove", "success")
	}

	definitions, err := s.orders.TagDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tag definitions: %w", err)
	}
	lookup := make(map[string]int64, len(definitions))
	for _, t := range definitions {
		lookup[t.Name] = t.ID
	}

	written := []string{}
	for _, name := range TagNames(advice.AdviceBoxes, s.prefix) {
		id, ok := lookup[name]
		if !ok {
			metrics.RecordTagWrite("add", "missing")
			lg.Warn().Str("tag", name).Msg("Tag does not exist in order system, skipping")
			continue
		}
		if err := s.orders.AddOrderTag(ctx, advice.OrderID, id); err != nil {
			metrics.RecordTagWrite("add", "error")
			lg.Error().Err(err).Str("tag", name).Msg("Failed to add tag")
			continue
		}
		metrics.RecordTagWrite("add", "success")
		written = append(written, name)
	}

	if err := s.store.MarkApplied(ctx, advice.ID, written, s.now().UTC()); err != nil {
		lg.Error().Err(err).Msg("Tags written but advice status update failed")
	}
	return written, nil
}

// TagNames builds one tag per box; repeated container names get a running " (N)" suffix.
func TagNames(boxes []model.AdviceBox, prefix string) []string {
	counts := make(map[string]int)
	names := make([]string, 0, len(boxes))
	for _, b := range boxes {
		base := prefix + b.Label()
		counts[base]++
		if n := counts[base]; n > 1 {
			names = append(names, base+" ("+strconv.Itoa(n)+")")
			continue
		}
		names = append(names, base)
	}
	return names
}
