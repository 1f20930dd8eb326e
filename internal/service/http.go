package service

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strconv"

	"moderation/internal/biz"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// MaxImageBytes caps the size of an image upload.
const MaxImageBytes = 10 << 20

const (
	OperationModerateText  = "/moderation.v1.Moderation/ModerateText"
	OperationModerateImage = "/moderation.v1.Moderation/ModerateImage"
	OperationGetVerdict    = "/moderation.v1.Moderation/GetVerdict"
	OperationGetStats      = "/moderation.v1.Moderation/GetStats"
	OperationRoot          = "/moderation.v1.Moderation/Root"
	OperationHealth        = "/moderation.v1.Moderation/Health"
)

var (
	errNoFile       = kerrors.BadRequest(biz.ReasonValidationFailed, "No file provided")
	errFileTooLarge = kerrors.New(stdhttp.StatusRequestEntityTooLarge, biz.ReasonValidationFailed, "File too large")
)

// ModerationHTTPServer is the HTTP surface of ModerationService.
type ModerationHTTPServer interface {
	ModerateText(context.Context, *ModerateTextRequest) (*VerdictReply, error)
	ModerateImage(context.Context, *ModerateImageRequest) (*ImageVerdictReply, error)
	GetVerdict(context.Context, *GetVerdictRequest) (*VerdictReply, error)
	GetStats(context.Context, *Empty) (*biz.Stats, error)
	Root(context.Context, *Empty) (*RootReply, error)
	Health(context.Context, *Empty) (*biz.Health, error)
}

// RegisterModerationHTTPServer mounts the moderation routes on s.
func RegisterModerationHTTPServer(s *http.Server, srv ModerationHTTPServer) {
	r := s.Route("/")
	r.GET("/", _Moderation_Root0_HTTP_Handler(srv))
	r.GET("/health", _Moderation_Health0_HTTP_Handler(srv))
	r.POST("/moderate/text", _Moderation_ModerateText0_HTTP_Handler(srv))
	r.POST("/moderate/image", _Moderation_ModerateImage0_HTTP_Handler(srv))
	r.GET("/moderation/{id}", _Moderation_GetVerdict0_HTTP_Handler(srv))
	r.GET("/stats", _Moderation_GetStats0_HTTP_Handler(srv))
}

func _Moderation_ModerateText0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ModerateTextRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationModerateText)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ModerateText(ctx, req.(*ModerateTextRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*VerdictReply)
		return ctx.Result(200, reply)
	}
}

func _Moderation_ModerateImage0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in, err := bindImageUpload(ctx)
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationModerateImage)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ModerateImage(ctx, req.(*ModerateImageRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		reply := out.(*ImageVerdictReply)
		return ctx.Result(200, reply)
	}
}

func _Moderation_GetVerdict0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
		if err != nil {
			return biz.ErrInvalidID
		}
		in := &GetVerdictRequest{ID: id}
		http.SetOperation(ctx, OperationGetVerdict)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetVerdict(ctx, req.(*GetVerdictRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		reply := out.(*VerdictReply)
		return ctx.Result(200, reply)
	}
}

func _Moderation_GetStats0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in Empty
		http.SetOperation(ctx, OperationGetStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetStats(ctx, req.(*Empty))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*biz.Stats)
		return ctx.Result(200, reply)
	}
}

func _Moderation_Root0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in Empty
		http.SetOperation(ctx, OperationRoot)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Root(ctx, req.(*Empty))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RootReply)
		return ctx.Result(200, reply)
	}
}

func _Moderation_Health0_HTTP_Handler(srv ModerationHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in Empty
		http.SetOperation(ctx, OperationHealth)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Health(ctx, req.(*Empty))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*biz.Health)
		code := 200
		if !reply.Healthy() {
			code = stdhttp.StatusServiceUnavailable
		}
		return ctx.Result(code, reply)
	}
}

// bindImageUpload reads the "file" part of a multipart request.
func bindImageUpload(ctx http.Context) (*ModerateImageRequest, error) {
	req := ctx.Request()
	req.Body = stdhttp.MaxBytesReader(ctx.Response(), req.Body, MaxImageBytes+1<<20)

	file, header, err := req.FormFile("file")
	if err != nil {
		var tooLarge *stdhttp.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errFileTooLarge
		}
		return nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, errNoFile
	}
	if len(data) > MaxImageBytes {
		return nil, errFileTooLarge
	}

	return &ModerateImageRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
