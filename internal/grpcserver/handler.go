package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/patric-chuzhbe/studydesk/internal/auth"
	"github.com/patric-chuzhbe/studydesk/internal/logger"
	"github.com/patric-chuzhbe/studydesk/internal/metrics"
	"github.com/patric-chuzhbe/studydesk/internal/service"
)

type chatResponder interface {
	Respond(message string) (intent, reply string)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type StudyDeskHandler struct {
	svc     *service.Service
	bot     chatResponder
	db      pinger
	metrics *metrics.Metrics
}

func NewStudyDeskHandler(svc *service.Service, bot chatResponder, db pinger) *StudyDeskHandler {
	return &StudyDeskHandler{
		svc:     svc,
		bot:     bot,
		db:      db,
		metrics: metrics.New(),
	}
}

// Notifications returns the caller's feed as a list of {type, text, link} structs.
func (h *StudyDeskHandler) Notifications(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	username, ok := auth.UsernameFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing username")
	}

	feed, err := h.svc.Notifications(ctx, username)
	if err != nil {
		logger.Log.Errorw("notifications failed", "username", username, "error", err)
		return nil, status.Error(codes.Internal, "failed to build notifications")
	}

	items := make([]interface{}, 0, len(feed))
	for _, n := range feed {
		items = append(items, map[string]interface{}{
			"type": n.Type,
			"text": n.Text,
			"link": n.Link,
		})
	}

	resp, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode notifications")
	}

	return resp, nil
}

// Chat expects {"message": "..."} and answers {"response": "..."}.
func (h *StudyDeskHandler) Chat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	message := req.GetFields()["message"].GetStringValue()

	intent, reply := h.bot.Respond(message)
	if intent != "" {
		h.metrics.ChatIntentsTotal.WithLabelValues(intent).Inc()
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"response": structpb.NewStringValue(reply),
		},
	}, nil
}

func (h *StudyDeskHandler) InternalStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats, err := h.svc.InternalStats(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to retrieve internal stats")
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"users":       structpb.NewNumberValue(float64(stats.Users)),
			"reminders":   structpb.NewNumberValue(float64(stats.Reminders)),
			"assignments": structpb.NewNumberValue(float64(stats.Assignments)),
		},
	}, nil
}

func (h *StudyDeskHandler) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := h.db.Ping(ctx); err != nil {
		return nil, status.Error(codes.Unavailable, "storage is unavailable")
	}
	return &emptypb.Empty{}, nil
}
