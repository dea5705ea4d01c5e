package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/dto"
	"bizlevel/internal/logger"
	"bizlevel/internal/realtime"
	"bizlevel/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	defaultStreamDebounce  = 2 * time.Second
	defaultStreamKeepAlive = 25 * time.Second
)

// StreamHandler pushes level-state snapshots to the learner over SSE
// whenever their progress changes.
type StreamHandler struct {
	progress   service.ProgressService
	subscriber domain.ProgressSubscriber
	debounce   time.Duration
	keepAlive  time.Duration
}

func NewStreamHandler(progress service.ProgressService, subscriber domain.ProgressSubscriber, debounce, keepAlive time.Duration) *StreamHandler {
	if debounce <= 0 {
		debounce = defaultStreamDebounce
	}
	if keepAlive <= 0 {
		keepAlive = defaultStreamKeepAlive
	}
	return &StreamHandler{progress: progress, subscriber: subscriber, debounce: debounce, keepAlive: keepAlive}
}

// Stream handles GET /api/progress/stream
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	userID := id.UserID

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := h.subscriber.Subscribe(ctx, userID)
		refresh := make(chan struct{}, 1)
		debouncer := realtime.NewDebouncer(h.debounce, func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		})
		defer debouncer.Stop()

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		if err := h.writeSnapshot(ctx, w, userID); err != nil {
			return
		}
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				debouncer.Trigger()
			case <-refresh:
				if err := h.writeSnapshot(ctx, w, userID); err != nil {
					logger.Get().Debug("Progress stream closed", zap.String("userID", userID), zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// writeSnapshot derives the current level states and writes them as one
// "levels" event. A failed derivation is logged and skipped.
func (h *StreamHandler) writeSnapshot(ctx context.Context, w *bufio.Writer, userID string) error {
	overviews, err := h.progress.ListLevelStates(ctx, userID)
	if err != nil {
		logger.Get().Error("Failed to derive level states for stream", zap.String("userID", userID), zap.Error(err))
		return nil
	}
	levels := make([]dto.LevelSummary, 0, len(overviews))
	for _, ov := range overviews {
		levels = append(levels, dto.NewLevelSummary(ov))
	}
	data, err := json.Marshal(dto.LevelListResponse{Levels: levels})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: levels\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
